package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{"message": message})
}

// respondAppError maps the error taxonomy onto status codes. Everything a
// caller can fix stays 4xx; collaborator trouble is 502.
func respondAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeGeocode:
		respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
	case apperrors.ErrorTypeNetwork:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
