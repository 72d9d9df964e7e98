package services_test

import (
	"context"
	"errors"

	"github.com/muharrempasbiyik/yoldancek/internal/adapters/cache"
	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
)

// stubDirectory implements directory.Client with per-method overrides. A
// call without an override fails loudly so tests can't silently depend on
// an endpoint they never wired.
type stubDirectory struct {
	listCities       func(ctx context.Context) ([]directory.CityRecord, error)
	listDistricts    func(ctx context.Context, provinceID int) ([]directory.DistrictRecord, error)
	register         func(ctx context.Context, req directory.RegistrationRequest) (*directory.AuthResponse, error)
	login            func(ctx context.Context, req directory.LoginRequest) (*directory.AuthResponse, error)
	getProfile       func(ctx context.Context, token string) (*directory.CompanyRecord, error)
	updateProfile    func(ctx context.Context, token string, req directory.ProfileUpdateRequest) (*directory.CompanyRecord, error)
	nearestUnits     func(ctx context.Context, q directory.NearestQuery) ([]directory.UnitRecord, error)
	nearestCompanies func(ctx context.Context, q directory.NearestQuery) ([]directory.CompanyRecord, error)
	listUnits        func(ctx context.Context, token string) ([]directory.UnitRecord, error)
	addUnit          func(ctx context.Context, token string, req directory.UnitRequest) (*directory.UnitRecord, error)
	updateUnit       func(ctx context.Context, token string, id int64, req directory.UnitRequest) (*directory.UnitRecord, error)
	activateUnit     func(ctx context.Context, token string, id int64) error
	deactivateUnit   func(ctx context.Context, token string, id int64) error
	deleteUnit       func(ctx context.Context, token string, id int64) error
}

var errNotWired = errors.New("endpoint not wired in this test")

func (s *stubDirectory) ListCities(ctx context.Context) ([]directory.CityRecord, error) {
	if s.listCities == nil {
		return nil, errNotWired
	}
	return s.listCities(ctx)
}

func (s *stubDirectory) ListDistricts(ctx context.Context, provinceID int) ([]directory.DistrictRecord, error) {
	if s.listDistricts == nil {
		return nil, errNotWired
	}
	return s.listDistricts(ctx, provinceID)
}

func (s *stubDirectory) Register(ctx context.Context, req directory.RegistrationRequest) (*directory.AuthResponse, error) {
	if s.register == nil {
		return nil, errNotWired
	}
	return s.register(ctx, req)
}

func (s *stubDirectory) Login(ctx context.Context, req directory.LoginRequest) (*directory.AuthResponse, error) {
	if s.login == nil {
		return nil, errNotWired
	}
	return s.login(ctx, req)
}

func (s *stubDirectory) GetProfile(ctx context.Context, token string) (*directory.CompanyRecord, error) {
	if s.getProfile == nil {
		return nil, errNotWired
	}
	return s.getProfile(ctx, token)
}

func (s *stubDirectory) UpdateProfile(ctx context.Context, token string, req directory.ProfileUpdateRequest) (*directory.CompanyRecord, error) {
	if s.updateProfile == nil {
		return nil, errNotWired
	}
	return s.updateProfile(ctx, token, req)
}

func (s *stubDirectory) NearestUnits(ctx context.Context, q directory.NearestQuery) ([]directory.UnitRecord, error) {
	if s.nearestUnits == nil {
		return nil, errNotWired
	}
	return s.nearestUnits(ctx, q)
}

func (s *stubDirectory) NearestCompanies(ctx context.Context, q directory.NearestQuery) ([]directory.CompanyRecord, error) {
	if s.nearestCompanies == nil {
		return nil, errNotWired
	}
	return s.nearestCompanies(ctx, q)
}

func (s *stubDirectory) ListUnits(ctx context.Context, token string) ([]directory.UnitRecord, error) {
	if s.listUnits == nil {
		return nil, errNotWired
	}
	return s.listUnits(ctx, token)
}

func (s *stubDirectory) AddUnit(ctx context.Context, token string, req directory.UnitRequest) (*directory.UnitRecord, error) {
	if s.addUnit == nil {
		return nil, errNotWired
	}
	return s.addUnit(ctx, token, req)
}

func (s *stubDirectory) UpdateUnit(ctx context.Context, token string, id int64, req directory.UnitRequest) (*directory.UnitRecord, error) {
	if s.updateUnit == nil {
		return nil, errNotWired
	}
	return s.updateUnit(ctx, token, id, req)
}

func (s *stubDirectory) ActivateUnit(ctx context.Context, token string, id int64) error {
	if s.activateUnit == nil {
		return errNotWired
	}
	return s.activateUnit(ctx, token, id)
}

func (s *stubDirectory) DeactivateUnit(ctx context.Context, token string, id int64) error {
	if s.deactivateUnit == nil {
		return errNotWired
	}
	return s.deactivateUnit(ctx, token, id)
}

func (s *stubDirectory) DeleteUnit(ctx context.Context, token string, id int64) error {
	if s.deleteUnit == nil {
		return errNotWired
	}
	return s.deleteUnit(ctx, token, id)
}

func newSession() *services.SessionService {
	return services.NewSessionService(cache.NewMemoryAdapter())
}

func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }
