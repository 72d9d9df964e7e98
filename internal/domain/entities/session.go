package entities

// Profile is the editable provider profile form.
type Profile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
	PhoneNumber string `json:"phoneNumber"`
	ServiceCity string `json:"serviceCity"`
	FullAddress string `json:"fullAddress"`
	Email       string `json:"email"`
}

// UserSummary is the display profile shown in the session header.
type UserSummary struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	ServiceCity string `json:"serviceCity,omitempty"`
	FullAddress string `json:"fullAddress,omitempty"`
}

// UnitLocation is a previously resolved location label for one service
// unit, kept so resolution does not need to be redone from scratch every
// visit.
type UnitLocation struct {
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
}

// SessionRecord is the locally persisted bundle of auth token, profile
// data and the unit-id keyed location-name cache. It is created on
// login/registration and wiped on logout.
type SessionRecord struct {
	Token         string                 `json:"token,omitempty"`
	User          UserSummary            `json:"user"`
	Profile       Profile                `json:"profile"`
	UnitLocations map[int64]UnitLocation `json:"unitLocations"`
}
