package services

import (
	"context"
	"strings"
	"time"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/observability"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

const defaultNearestLimit = 20

// defaultUnitName labels records carrying neither a driver name nor a
// plate so they never render nameless.
const defaultUnitName = "Çekici"

// Filter selects candidate service units: either a coordinate pair or a
// province/district id pair, optionally both when the region ids should
// further narrow a coordinate query.
type Filter struct {
	Coordinates *entities.Coordinates
	ProvinceID  int
	DistrictID  int
	Limit       int
}

// ResolvedLocation is a device position reconciled against the catalog.
type ResolvedLocation struct {
	Coordinates entities.Coordinates   `json:"coordinates"`
	ProvinceID  int                    `json:"provinceId"`
	DistrictID  int                    `json:"districtId,omitempty"`
	Label       entities.LocationLabel `json:"label"`
}

// LocatorService retrieves candidate service units from the directory
// backend, filters them against declared operating areas and produces an
// enriched, display-ready list.
type LocatorService struct {
	client    directory.Client
	resolver  *ResolverService
	catalog   *CatalogService
	geocoder  providers.ReverseGeocoder
	device    providers.DeviceLocator
	photoBase string
}

// NewLocatorService creates a new provider locator. photoBase is the
// origin relative photo paths are rewritten against.
func NewLocatorService(
	client directory.Client,
	resolver *ResolverService,
	catalog *CatalogService,
	geocoder providers.ReverseGeocoder,
	device providers.DeviceLocator,
	photoBase string,
) *LocatorService {
	return &LocatorService{
		client:    client,
		resolver:  resolver,
		catalog:   catalog,
		geocoder:  geocoder,
		device:    device,
		photoBase: strings.TrimRight(photoBase, "/"),
	}
}

// Locate returns display-ready units matching the filter. It never
// returns an error: if the primary endpoint fails at the transport level
// it retries against the legacy endpoint, and if both fail it returns an
// empty list. An empty-but-successful primary result does not trigger the
// legacy fallback.
func (s *LocatorService) Locate(ctx context.Context, filter Filter) []entities.EnrichedUnit {
	query := s.nearestQuery(filter)

	records, err := s.client.NearestUnits(ctx, query)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Msg("primary nearest endpoint failed, retrying legacy endpoint")
		return s.locateLegacy(ctx, query)
	}

	units := make([]entities.EnrichedUnit, 0, len(records))
	for _, record := range records {
		if !record.IsActive {
			continue
		}

		areas := toOperatingAreas(record.OperatingAreas)
		display, ok := selectDisplayArea(areas, filter.ProvinceID, filter.DistrictID)
		if !ok {
			continue
		}

		units = append(units, s.enrichUnit(record, display))
	}
	return units
}

// ResolveDeviceLocation acquires the device position once and reconciles
// it against the catalog. Acquisition denial or timeout surfaces as a
// VALIDATION error with a user-facing message.
func (s *LocatorService) ResolveDeviceLocation(ctx context.Context) (*ResolvedLocation, error) {
	coords, err := s.device.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s.ResolveCoordinates(ctx, coords)
}

// ResolveCoordinates turns raw coordinates into catalog ids via the
// reverse-geocoding collaborator. It is only ever called on explicit user
// action.
func (s *LocatorService) ResolveCoordinates(ctx context.Context, coords entities.Coordinates) (*ResolvedLocation, error) {
	place, err := s.geocoder.ReverseGeocode(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		return nil, err
	}

	provinces := s.catalog.ProvincesLoaded(ctx)
	provinceID, ok := s.resolver.MatchProvinceIDByName(provinces, place.ProvinceName)
	if !ok {
		return nil, apperrors.NewGeocodeError("no catalog province matches the located name, choose manually", nil)
	}

	districts := s.catalog.Districts(ctx, provinceID)
	districtID, _ := MatchDistrictIDByName(districts, place.DistrictName)

	resolved := &ResolvedLocation{
		Coordinates: coords,
		ProvinceID:  provinceID,
		DistrictID:  districtID,
	}
	resolved.Label = entities.LocationLabel{
		Province: s.resolver.ProvinceName(provinceID, "", 0),
		District: s.resolver.DistrictName(districtID, "", 0),
	}
	return resolved, nil
}

// nearestQuery maps the filter onto the wire: coordinates win, and the
// region ids stay client-side for per-area matching in that case.
func (s *LocatorService) nearestQuery(filter Filter) directory.NearestQuery {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNearestLimit
	}
	query := directory.NearestQuery{Limit: limit}
	if filter.Coordinates != nil {
		query.Latitude = &filter.Coordinates.Latitude
		query.Longitude = &filter.Coordinates.Longitude
		return query
	}
	query.ProvinceID = filter.ProvinceID
	query.DistrictID = filter.DistrictID
	return query
}

// locateLegacy serves the legacy nearest-companies shape. Those records
// carry no operating-area list, so the active and per-area filtering of
// the primary path is skipped and they are returned largely as-is.
func (s *LocatorService) locateLegacy(ctx context.Context, query directory.NearestQuery) []entities.EnrichedUnit {
	companies, err := s.client.NearestCompanies(ctx, query)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Msg("legacy nearest endpoint failed, returning no results")
		return []entities.EnrichedUnit{}
	}

	units := make([]entities.EnrichedUnit, 0, len(companies))
	for _, record := range companies {
		unit := entities.EnrichedUnit{
			ServiceUnit: entities.ServiceUnit{
				ID:          unitID(record.ID),
				DisplayName: stringValue(record.CompanyName),
				Phone:       stringValue(record.PhoneNumber),
				Email:       stringValue(record.Email),
				IsActive:    true,
				Latitude:    record.Latitude,
				Longitude:   record.Longitude,
			},
			Label: entities.LocationLabel{
				Province: stringValue(record.City),
				District: stringValue(record.District),
			},
			Distance: record.Distance,
		}
		units = append(units, unit)
	}
	return units
}

func (s *LocatorService) enrichUnit(record directory.UnitRecord, display entities.OperatingArea) entities.EnrichedUnit {
	id := unitID(record.ID)

	name := resolveChain(
		func() string { return stringValue(record.DriverName) },
		func() string { return stringValue(record.LicensePlate) },
		func() string { return defaultUnitName },
	)

	unit := entities.EnrichedUnit{
		ServiceUnit: entities.ServiceUnit{
			ID:             id,
			DisplayName:    name,
			Plate:          stringValue(record.LicensePlate),
			Phone:          stringValue(record.CompanyPhone),
			Email:          stringValue(record.CompanyEmail),
			IsActive:       record.IsActive,
			OperatingAreas: toOperatingAreas(record.OperatingAreas),
			Latitude:       firstCoord(record.Latitude, record.CurrentLatitude, display.Latitude),
			Longitude:      firstCoord(record.Longitude, record.CurrentLongitude, display.Longitude),
			PhotoURL:       s.normalizePhotoURL(stringValue(record.DriverPhotoURL)),
		},
		Label:    s.resolver.Label(display, id),
		Distance: record.Distance,
	}
	return unit
}

// normalizePhotoURL rewrites a relative photo path against the configured
// base origin. Absolute URLs pass through unchanged.
func (s *LocatorService) normalizePhotoURL(photo string) string {
	if photo == "" || strings.HasPrefix(photo, "http") {
		return photo
	}
	if strings.HasPrefix(photo, "/") {
		return s.photoBase + photo
	}
	return s.photoBase + "/" + photo
}

// selectDisplayArea applies the per-area filter and picks the display
// area: the first operating area that satisfied the filter, areas[0] when
// no filter is active, or an empty area when the unit declares none. Each
// absent filter term evaluates to true.
func selectDisplayArea(areas []entities.OperatingArea, provinceID, districtID int) (entities.OperatingArea, bool) {
	if provinceID == 0 && districtID == 0 {
		if len(areas) == 0 {
			return entities.OperatingArea{}, true
		}
		return areas[0], true
	}
	for _, area := range areas {
		matchesProvince := provinceID == 0 || area.ProvinceID == provinceID
		matchesDistrict := districtID == 0 || area.DistrictID == districtID
		if matchesProvince && matchesDistrict {
			return area, true
		}
	}
	return entities.OperatingArea{}, false
}

func toOperatingAreas(records []directory.AreaRecord) []entities.OperatingArea {
	areas := make([]entities.OperatingArea, 0, len(records))
	for _, record := range records {
		areas = append(areas, entities.OperatingArea{
			ProvinceID:   intValue(record.ProvinceID),
			DistrictID:   intValue(record.DistrictID),
			ProvinceName: stringValue(record.City),
			DistrictName: stringValue(record.District),
			Latitude:     record.Latitude,
			Longitude:    record.Longitude,
		})
	}
	return areas
}

// unitID falls back to a time-derived synthetic id for records the
// backend returns without one, so list rows stay addressable.
func unitID(id *int64) int64 {
	if id != nil {
		return *id
	}
	return time.Now().UnixNano()
}

func firstCoord(candidates ...*float64) *float64 {
	for _, candidate := range candidates {
		if candidate != nil {
			return candidate
		}
	}
	return nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
