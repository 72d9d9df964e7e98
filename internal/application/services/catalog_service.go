package services

import (
	"context"
	"sync"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/observability"
)

// CatalogService loads and exposes the canonical province list and, per
// province, its district list, from the directory backend.
//
// The province snapshot and the district-name cache are shared mutable
// state touched from the list-refresh, area-edit and use-my-location
// paths; concurrent writers resolve last-write-wins.
type CatalogService struct {
	client directory.Client

	mu            sync.RWMutex
	provinces     []entities.Province
	provinceNames map[int]string
	districtNames map[int]string
}

// NewCatalogService creates a new region catalog.
func NewCatalogService(client directory.Client) *CatalogService {
	return &CatalogService{
		client:        client,
		provinceNames: make(map[int]string),
		districtNames: make(map[int]string),
	}
}

// Provinces loads the flat city list and reduces it to one entry per
// distinct province id, first-seen name winning, input order preserved.
// The loaded snapshot replaces the previous one and backs name lookups
// until the next load.
func (s *CatalogService) Provinces(ctx context.Context) ([]entities.Province, error) {
	cities, err := s.client.ListCities(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(cities))
	provinces := make([]entities.Province, 0, len(cities))
	names := make(map[int]string, len(cities))
	for _, city := range cities {
		if _, ok := seen[city.ProvinceID]; ok {
			continue
		}
		if city.CityName == "" {
			continue
		}
		seen[city.ProvinceID] = struct{}{}
		provinces = append(provinces, entities.Province{ID: city.ProvinceID, Name: city.CityName})
		names[city.ProvinceID] = city.CityName
	}

	s.mu.Lock()
	s.provinces = provinces
	s.provinceNames = names
	s.mu.Unlock()

	return provinces, nil
}

// ProvincesLoaded returns the last loaded province snapshot, loading it
// first if no load has happened yet.
func (s *CatalogService) ProvincesLoaded(ctx context.Context) []entities.Province {
	s.mu.RLock()
	snapshot := s.provinces
	s.mu.RUnlock()
	if len(snapshot) > 0 {
		return snapshot
	}
	provinces, err := s.Provinces(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("province catalog load failed")
		return nil
	}
	return provinces
}

// Districts fetches the district list of one province. The list is fetched
// fresh on every call and never merged across provinces; only the id→name
// cache backing the resolver is carried over, last-write-wins. On
// transport failure it returns an empty list without an error; the
// caller decides how to warn.
func (s *CatalogService) Districts(ctx context.Context, provinceID int) []entities.District {
	if provinceID <= 0 {
		return []entities.District{}
	}

	rows, err := s.client.ListDistricts(ctx, provinceID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("province_id", provinceID).
			Msg("district list load failed")
		return []entities.District{}
	}

	districts := make([]entities.District, 0, len(rows))
	s.mu.Lock()
	for _, row := range rows {
		districts = append(districts, entities.District{
			ID:         row.DistrictID,
			Name:       row.DistrictName,
			ProvinceID: provinceID,
		})
		s.districtNames[row.DistrictID] = row.DistrictName
	}
	s.mu.Unlock()

	return districts
}

// ProvinceName resolves a province id against the loaded snapshot.
func (s *CatalogService) ProvinceName(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.provinceNames[id]
	return name, ok && name != ""
}

// DistrictName resolves a district id against every district list loaded
// so far in this process.
func (s *CatalogService) DistrictName(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.districtNames[id]
	return name, ok && name != ""
}
