package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
)

// LocatorHandler serves nearest-provider lookups and the
// use-my-location flow.
type LocatorHandler struct {
	locator *services.LocatorService
}

// NewLocatorHandler creates a new locator handler.
func NewLocatorHandler(locator *services.LocatorService) *LocatorHandler {
	return &LocatorHandler{locator: locator}
}

// Nearest handles GET /api/providers/nearest?latitude&longitude&provinceId&districtId&limit.
// The locator never errors; zero results and degraded results both come
// back as a 200 with a list.
func (h *LocatorHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Coordinates == nil && filter.ProvinceID == 0 && filter.DistrictID == 0 {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": []entities.EnrichedUnit{}})
		return
	}

	units := h.locator.Locate(r.Context(), filter)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": units})
}

// Resolve handles GET /api/location/resolve. With lat/lng query
// parameters it reconciles those coordinates against the catalog;
// without them it asks the device locator first.
func (h *LocatorHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngStr := strings.TrimSpace(r.URL.Query().Get("lng"))

	if latStr == "" && lngStr == "" {
		resolved, err := h.locator.ResolveDeviceLocation(r.Context())
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, resolved)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lng parameter")
		return
	}

	resolved, err := h.locator.ResolveCoordinates(r.Context(), entities.Coordinates{Latitude: lat, Longitude: lng})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolved)
}

func parseFilter(r *http.Request) (services.Filter, error) {
	query := r.URL.Query()
	filter := services.Filter{}

	latStr := strings.TrimSpace(query.Get("latitude"))
	lngStr := strings.TrimSpace(query.Get("longitude"))
	if latStr != "" || lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return filter, errInvalidParam("latitude")
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return filter, errInvalidParam("longitude")
		}
		filter.Coordinates = &entities.Coordinates{Latitude: lat, Longitude: lng}
	}

	var err error
	if filter.ProvinceID, err = optionalInt(query.Get("provinceId")); err != nil {
		return filter, errInvalidParam("provinceId")
	}
	if filter.DistrictID, err = optionalInt(query.Get("districtId")); err != nil {
		return filter, errInvalidParam("districtId")
	}
	if filter.Limit, err = optionalInt(query.Get("limit")); err != nil {
		return filter, errInvalidParam("limit")
	}
	return filter, nil
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errInvalidParam(name string) error {
	return paramError("invalid " + name + " parameter")
}

func optionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
