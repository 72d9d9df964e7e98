package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
)

// FleetHandler serves the authenticated provider's fleet endpoints.
type FleetHandler struct {
	fleet *services.FleetService
}

// NewFleetHandler creates a new fleet handler.
func NewFleetHandler(fleet *services.FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

type unitRequest struct {
	LicensePlate string               `json:"licensePlate"`
	DriverName   string               `json:"driverName"`
	Areas        []directory.UnitArea `json:"areas"`
}

func (r unitRequest) toInput() services.UnitInput {
	return services.UnitInput{
		LicensePlate: r.LicensePlate,
		DriverName:   r.DriverName,
		Areas:        r.Areas,
	}
}

// List handles GET /api/fleet/units.
func (h *FleetHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.fleet.List(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"data": units})
}

// Add handles POST /api/fleet/units.
func (h *FleetHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	unit, err := h.fleet.Add(r.Context(), req.toInput())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, unit)
}

// Update handles PUT /api/fleet/units/{id}.
func (h *FleetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := unitIDFromPath(w, r)
	if !ok {
		return
	}

	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	unit, err := h.fleet.Update(r.Context(), id, req.toInput())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, unit)
}

// Activate handles POST /api/fleet/units/{id}/activate.
func (h *FleetHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := unitIDFromPath(w, r)
	if !ok {
		return
	}
	if err := h.fleet.Activate(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "unit activated"})
}

// Deactivate handles POST /api/fleet/units/{id}/deactivate.
func (h *FleetHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := unitIDFromPath(w, r)
	if !ok {
		return
	}
	if err := h.fleet.Deactivate(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "unit deactivated"})
}

// Delete handles DELETE /api/fleet/units/{id}.
func (h *FleetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := unitIDFromPath(w, r)
	if !ok {
		return
	}
	if err := h.fleet.Delete(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "unit deleted"})
}

func unitIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid unit id")
		return 0, false
	}
	return id, true
}
