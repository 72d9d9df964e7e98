package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
)

// AuthHandler serves register/login/logout and the profile endpoints.
type AuthHandler struct {
	auth    *services.AuthService
	session *services.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *services.AuthService, session *services.SessionService) *AuthHandler {
	return &AuthHandler{auth: auth, session: session}
}

type registerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	CompanyName  string `json:"companyName"`
	PhoneNumber  string `json:"phoneNumber"`
	ProvinceID   int    `json:"provinceId"`
	DistrictID   int    `json:"districtId"`
	ProvinceName string `json:"provinceName"`
	DistrictName string `json:"districtName"`
	FullAddress  string `json:"fullAddress"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.auth.Register(r.Context(), services.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		PhoneNumber:  req.PhoneNumber,
		ProvinceID:   req.ProvinceID,
		DistrictID:   req.DistrictID,
		ProvinceName: req.ProvinceName,
		DistrictName: req.DistrictName,
		FullAddress:  req.FullAddress,
		Email:        req.Email,
		Password:     req.Password,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Session handles GET /api/auth/session, restoring the persisted record.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	record := h.session.Restore(r.Context())
	respondWithJSON(w, http.StatusOK, record)
}

// Profile handles GET /api/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	company, err := h.auth.Profile(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, company)
}

// UpdateProfile handles PUT /api/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req directory.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	company, err := h.auth.UpdateProfile(r.Context(), req)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, company)
}
