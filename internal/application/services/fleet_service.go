package services

import (
	"context"
	"strings"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

// FleetUnit is one row of the provider's own fleet list, with its
// operating area resolved to a display label.
type FleetUnit struct {
	ID       int64                  `json:"id"`
	Name     string                 `json:"name"`
	Plate    string                 `json:"plate,omitempty"`
	IsActive bool                   `json:"isActive"`
	Area     entities.OperatingArea `json:"area"`
	Label    entities.LocationLabel `json:"label"`
	PhotoURL string                 `json:"photoUrl,omitempty"`
}

// UnitInput is the validated input for adding or updating a unit.
type UnitInput struct {
	LicensePlate string
	DriverName   string
	Areas        []directory.UnitArea
}

// FleetService manages the authenticated provider's own service units and
// keeps the session location-name cache current as it resolves them.
type FleetService struct {
	client   directory.Client
	catalog  *CatalogService
	resolver *ResolverService
	session  *SessionService
	locator  *LocatorService
}

// NewFleetService creates a new fleet service.
func NewFleetService(
	client directory.Client,
	catalog *CatalogService,
	resolver *ResolverService,
	session *SessionService,
	locator *LocatorService,
) *FleetService {
	return &FleetService{
		client:   client,
		catalog:  catalog,
		resolver: resolver,
		session:  session,
		locator:  locator,
	}
}

// List fetches the provider's fleet and resolves each unit's first
// operating area to a display label. District lists are prefetched for
// areas that carry an id but no declared name and no cached name yet, so
// the resolver's catalog source can fill them in. Every resolved label is
// recorded into the session cache for the next visit.
func (s *FleetService) List(ctx context.Context) ([]FleetUnit, error) {
	token := s.session.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("no active session")
	}

	records, err := s.client.ListUnits(ctx, token)
	if err != nil {
		return nil, err
	}

	s.prefetchDistrictNames(ctx, records)

	units := make([]FleetUnit, 0, len(records))
	for _, record := range records {
		var area entities.OperatingArea
		if areas := toOperatingAreas(record.OperatingAreas); len(areas) > 0 {
			area = areas[0]
		}

		id := unitID(record.ID)
		label := s.resolver.Label(area, id)
		s.session.RecordUnitLocation(id, label.Province, label.District)

		units = append(units, FleetUnit{
			ID:       id,
			Name:     resolveChain(func() string { return stringValue(record.DriverName) }, func() string { return stringValue(record.LicensePlate) }),
			Plate:    stringValue(record.LicensePlate),
			IsActive: record.IsActive,
			Area:     area,
			Label:    label,
			PhotoURL: s.locator.normalizePhotoURL(stringValue(record.DriverPhotoURL)),
		})
	}

	s.session.Persist(ctx)
	return units, nil
}

// prefetchDistrictNames loads the district list of every province whose
// units declare a district id without a name, filling the shared id→name
// cache before resolution. A failed load only costs that province its
// names; the placeholder chain still applies.
func (s *FleetService) prefetchDistrictNames(ctx context.Context, records []directory.UnitRecord) {
	provinces := make(map[int]struct{})
	for _, record := range records {
		if len(record.OperatingAreas) == 0 {
			continue
		}
		area := record.OperatingAreas[0]
		if area.DistrictID == nil || *area.DistrictID == 0 {
			continue
		}
		if area.District != nil && *area.District != "" {
			continue
		}
		if _, ok := s.catalog.DistrictName(*area.DistrictID); ok {
			continue
		}
		if area.ProvinceID != nil && *area.ProvinceID > 0 {
			provinces[*area.ProvinceID] = struct{}{}
		}
	}
	for provinceID := range provinces {
		s.catalog.Districts(ctx, provinceID)
	}
}

// Add registers a new unit after validating the input.
func (s *FleetService) Add(ctx context.Context, input UnitInput) (*FleetUnit, error) {
	token := s.session.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("no active session")
	}
	if err := validateUnitInput(input); err != nil {
		return nil, err
	}

	record, err := s.client.AddUnit(ctx, token, directory.UnitRequest{
		LicensePlate: strings.TrimSpace(input.LicensePlate),
		DriverName:   strings.TrimSpace(input.DriverName),
		Areas:        input.Areas,
	})
	if err != nil {
		return nil, err
	}
	unit := s.toFleetUnit(record)
	return &unit, nil
}

// Update replaces a unit's plate, driver and areas.
func (s *FleetService) Update(ctx context.Context, id int64, input UnitInput) (*FleetUnit, error) {
	token := s.session.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("no active session")
	}
	if err := validateUnitInput(input); err != nil {
		return nil, err
	}

	record, err := s.client.UpdateUnit(ctx, token, id, directory.UnitRequest{
		LicensePlate: strings.TrimSpace(input.LicensePlate),
		DriverName:   strings.TrimSpace(input.DriverName),
		Areas:        input.Areas,
	})
	if err != nil {
		return nil, err
	}
	unit := s.toFleetUnit(record)
	return &unit, nil
}

// Activate marks a unit active.
func (s *FleetService) Activate(ctx context.Context, id int64) error {
	token := s.session.Token()
	if token == "" {
		return apperrors.NewUnauthorizedError("no active session")
	}
	return s.client.ActivateUnit(ctx, token, id)
}

// Deactivate marks a unit inactive.
func (s *FleetService) Deactivate(ctx context.Context, id int64) error {
	token := s.session.Token()
	if token == "" {
		return apperrors.NewUnauthorizedError("no active session")
	}
	return s.client.DeactivateUnit(ctx, token, id)
}

// Delete removes a unit.
func (s *FleetService) Delete(ctx context.Context, id int64) error {
	token := s.session.Token()
	if token == "" {
		return apperrors.NewUnauthorizedError("no active session")
	}
	return s.client.DeleteUnit(ctx, token, id)
}

func (s *FleetService) toFleetUnit(record *directory.UnitRecord) FleetUnit {
	var area entities.OperatingArea
	if areas := toOperatingAreas(record.OperatingAreas); len(areas) > 0 {
		area = areas[0]
	}
	id := unitID(record.ID)
	return FleetUnit{
		ID:       id,
		Name:     resolveChain(func() string { return stringValue(record.DriverName) }, func() string { return stringValue(record.LicensePlate) }),
		Plate:    stringValue(record.LicensePlate),
		IsActive: record.IsActive,
		Area:     area,
		Label:    s.resolver.Label(area, id),
		PhotoURL: s.locator.normalizePhotoURL(stringValue(record.DriverPhotoURL)),
	}
}

// validateUnitInput surfaces missing selections before the mutating call
// is attempted.
func validateUnitInput(input UnitInput) error {
	if strings.TrimSpace(input.LicensePlate) == "" {
		return apperrors.NewValidationError("license plate is required")
	}
	if strings.TrimSpace(input.DriverName) == "" {
		return apperrors.NewValidationError("driver name is required")
	}
	if len(input.Areas) == 0 {
		return apperrors.NewValidationError("at least one operating area is required")
	}
	for _, area := range input.Areas {
		if area.ProvinceID <= 0 {
			return apperrors.NewValidationError("operating area needs a province selection")
		}
		if area.DistrictID <= 0 {
			return apperrors.NewValidationError("operating area needs a district selection")
		}
	}
	return nil
}
