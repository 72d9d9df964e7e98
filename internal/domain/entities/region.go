package entities

// Province is one entry of the two-level administrative region hierarchy.
// The catalog derives provinces from a flat city list where many rows may
// share a province id.
type Province struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// District belongs to exactly one province. District lists are fetched per
// province and never cached across provinces.
type District struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ProvinceID int    `json:"provinceId"`
}

// OperatingArea is a region, and optionally a point, that a service unit
// declares it covers. Server-declared names, when present, outrank any
// cache or catalog lookup for the same unit.
type OperatingArea struct {
	ProvinceID   int      `json:"provinceId,omitempty"`
	DistrictID   int      `json:"districtId,omitempty"`
	ProvinceName string   `json:"provinceName,omitempty"`
	DistrictName string   `json:"districtName,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// LocationLabel is the resolved province/district pair actually shown to a
// user.
type LocationLabel struct {
	Province string `json:"province"`
	District string `json:"district"`
}

// Display joins the non-empty parts as "district, province".
func (l LocationLabel) Display() string {
	switch {
	case l.District != "" && l.Province != "":
		return l.District + ", " + l.Province
	case l.District != "":
		return l.District
	default:
		return l.Province
	}
}
