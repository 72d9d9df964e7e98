package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
)

// GeolocationHandler exposes the raw reverse-geocoding collaborator.
type GeolocationHandler struct {
	geocoder providers.ReverseGeocoder
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(geocoder providers.ReverseGeocoder) *GeolocationHandler {
	return &GeolocationHandler{geocoder: geocoder}
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=...&lng=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngStr := strings.TrimSpace(r.URL.Query().Get("lng"))
	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
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

	place, err := h.geocoder.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"province": place.ProvinceName,
		"district": place.DistrictName,
	})
}
