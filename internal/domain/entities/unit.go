package entities

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ServiceUnit is a single recovery vehicle/driver entity owned by a
// registered provider.
type ServiceUnit struct {
	ID             int64           `json:"id"`
	DisplayName    string          `json:"displayName"`
	Plate          string          `json:"plate,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	IsActive       bool            `json:"isActive"`
	OperatingAreas []OperatingArea `json:"operatingAreas"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	PhotoURL       string          `json:"photoUrl,omitempty"`
}

// EnrichedUnit is a display-ready service unit: the selected provider
// fields merged with a resolved location label and, when the rich nearest
// endpoint supplied one, a distance value.
type EnrichedUnit struct {
	ServiceUnit
	Label    LocationLabel `json:"label"`
	Distance *float64      `json:"distance,omitempty"`
}
