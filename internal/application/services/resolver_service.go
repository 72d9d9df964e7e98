package services

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lowercases with Turkish casing rules, collapses internal
// whitespace and trims, so that "Çankaya ", "çankaya" and "ÇANKAYA"
// compare equal.
func Normalize(value string) string {
	lowered := cases.Lower(language.Turkish).String(value)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(lowered, " "))
}

// ResolverService produces one consistent display name per region id by
// trying an ordered list of sources, and maps reverse-geocoded free text
// back to catalog ids.
type ResolverService struct {
	catalog *CatalogService
	session *SessionService
}

// NewResolverService creates a new region name resolver.
func NewResolverService(catalog *CatalogService, session *SessionService) *ResolverService {
	return &ResolverService{catalog: catalog, session: session}
}

// resolveChain evaluates sources in order and stops at the first
// non-empty result. Keeping the chain as an explicit list makes the
// priority and termination conditions auditable on their own.
func resolveChain(sources ...func() string) string {
	for _, source := range sources {
		if value := strings.TrimSpace(source()); value != "" {
			return value
		}
	}
	return ""
}

// ProvinceName resolves a province id to a display name. A server-declared
// name outranks the catalog, the catalog outranks the session cache, and a
// nonzero id that nothing can name yields a synthesized placeholder rather
// than an empty string.
func (r *ResolverService) ProvinceName(id int, declared string, unitID int64) string {
	return resolveChain(
		func() string { return declared },
		func() string {
			name, _ := r.catalog.ProvinceName(id)
			return name
		},
		func() string {
			if loc, ok := r.session.UnitLocation(unitID); ok {
				return loc.City
			}
			return ""
		},
		func() string {
			if id != 0 {
				return fmt.Sprintf("Province #%d", id)
			}
			return ""
		},
	)
}

// DistrictName resolves a district id the same way, with the
// district-specific placeholder.
func (r *ResolverService) DistrictName(id int, declared string, unitID int64) string {
	return resolveChain(
		func() string { return declared },
		func() string {
			name, _ := r.catalog.DistrictName(id)
			return name
		},
		func() string {
			if loc, ok := r.session.UnitLocation(unitID); ok {
				return loc.District
			}
			return ""
		},
		func() string {
			if id != 0 {
				return fmt.Sprintf("District #%d", id)
			}
			return ""
		},
	)
}

// Label resolves both halves of an operating area for the given unit. The
// area's own ids and declared names always outrank cache or catalog
// lookups.
func (r *ResolverService) Label(area entities.OperatingArea, unitID int64) entities.LocationLabel {
	return entities.LocationLabel{
		Province: r.ProvinceName(area.ProvinceID, area.ProvinceName, unitID),
		District: r.DistrictName(area.DistrictID, area.DistrictName, unitID),
	}
}

// MatchProvinceIDByName maps a free-text province name, typically a
// geocoder guess, back to a catalog id by normalized exact match.
func (r *ResolverService) MatchProvinceIDByName(provinces []entities.Province, name string) (int, bool) {
	target := Normalize(name)
	if target == "" {
		return 0, false
	}
	for _, province := range provinces {
		if Normalize(province.Name) == target {
			return province.ID, true
		}
	}
	return 0, false
}

// MatchDistrictIDByName maps a free-text district name to an id within one
// province's district list by normalized exact match.
func MatchDistrictIDByName(districts []entities.District, name string) (int, bool) {
	target := Normalize(name)
	if target == "" {
		return 0, false
	}
	for _, district := range districts {
		if Normalize(district.Name) == target {
			return district.ID, true
		}
	}
	return 0, false
}
