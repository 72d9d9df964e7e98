package handlers

import (
	"net/http"
	"strconv"

	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/observability"
)

// CatalogHandler serves the province/district catalog.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProvinces handles GET /api/regions/provinces. A backend failure
// degrades to an empty list with a warning rather than an error page.
func (h *CatalogHandler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.catalog.Provinces(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("province list unavailable")
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"data":    []interface{}{},
			"message": "province catalog temporarily unavailable",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": provinces})
}

// ListDistricts handles GET /api/regions/districts/{provinceId}. The
// catalog already degrades failures to an empty list.
func (h *CatalogHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	provinceID, err := strconv.Atoi(r.PathValue("provinceId"))
	if err != nil || provinceID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid province id")
		return
	}
	districts := h.catalog.Districts(r.Context(), provinceID)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": districts})
}
