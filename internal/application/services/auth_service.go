package services

import (
	"context"
	"strings"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

const minPasswordLength = 6

// RegisterInput is the validated provider registration form.
type RegisterInput struct {
	FirstName    string
	LastName     string
	CompanyName  string
	PhoneNumber  string
	ProvinceID   int
	DistrictID   int
	ProvinceName string
	DistrictName string
	FullAddress  string
	Email        string
	Password     string
}

// AuthService runs register/login against the directory backend and owns
// the resulting session record. Token issuance itself belongs to the
// backend; only storage and retrieval happen here.
type AuthService struct {
	client  directory.Client
	session *SessionService
}

// NewAuthService creates a new auth service.
func NewAuthService(client directory.Client, session *SessionService) *AuthService {
	return &AuthService{client: client, session: session}
}

// Register validates the form, registers the provider and starts a
// session when the backend returns a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entities.SessionRecord, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	res, err := s.client.Register(ctx, directory.RegistrationRequest{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		CompanyName: strings.TrimSpace(input.CompanyName),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		ProvinceID:  input.ProvinceID,
		DistrictID:  input.DistrictID,
		City:        input.ProvinceName,
		District:    input.DistrictName,
		FullAddress: strings.TrimSpace(input.FullAddress),
		ServiceCity: input.ProvinceName,
		ServiceDist: input.DistrictName,
		Email:       strings.TrimSpace(input.Email),
		Password:    input.Password,
	})
	if err != nil {
		return nil, err
	}

	record := s.startSession(ctx, res, input.Email)
	return &record, nil
}

// Login authenticates and starts a session when the backend returns a
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.SessionRecord, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	res, err := s.client.Login(ctx, directory.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	record := s.startSession(ctx, res, email)
	return &record, nil
}

// Logout wipes the session record.
func (s *AuthService) Logout(ctx context.Context) {
	s.session.Clear(ctx)
}

// Profile fetches the authenticated provider profile from the backend.
func (s *AuthService) Profile(ctx context.Context) (*directory.CompanyRecord, error) {
	token := s.session.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("no active session")
	}
	return s.client.GetProfile(ctx, token)
}

// UpdateProfile pushes profile edits to the backend and refreshes the
// stored session forms.
func (s *AuthService) UpdateProfile(ctx context.Context, req directory.ProfileUpdateRequest) (*directory.CompanyRecord, error) {
	token := s.session.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("no active session")
	}
	company, err := s.client.UpdateProfile(ctx, token, req)
	if err != nil {
		return nil, err
	}

	user, profile := profileFromCompany(company, "")
	s.session.UpdateProfile(ctx, user, profile)
	return company, nil
}

// startSession folds the auth response into a session record. A response
// without a token leaves the previous session untouched.
func (s *AuthService) startSession(ctx context.Context, res *directory.AuthResponse, fallbackEmail string) entities.SessionRecord {
	if res == nil || res.Token == "" {
		return s.session.Record()
	}
	user, profile := profileFromCompany(res.Company, fallbackEmail)
	s.session.Start(ctx, res.Token, user, profile)
	return s.session.Record()
}

// profileFromCompany builds both profile forms from the backend's company
// record, falling back field by field where the record is sparse.
func profileFromCompany(company *directory.CompanyRecord, fallbackEmail string) (entities.UserSummary, entities.Profile) {
	var c directory.CompanyRecord
	if company != nil {
		c = *company
	}

	first := stringValue(c.FirstName)
	last := stringValue(c.LastName)
	companyName := stringValue(c.CompanyName)
	email := resolveChain(
		func() string { return stringValue(c.Email) },
		func() string { return fallbackEmail },
	)
	display := resolveChain(
		func() string { return companyName },
		func() string { return strings.TrimSpace(first + " " + last) },
	)

	user := entities.UserSummary{
		Name:        display,
		Company:     companyName,
		Email:       email,
		PhoneNumber: stringValue(c.PhoneNumber),
		ServiceCity: stringValue(c.ServiceCity),
		FullAddress: stringValue(c.FullAddress),
	}
	profile := entities.Profile{
		FirstName:   first,
		LastName:    last,
		CompanyName: companyName,
		PhoneNumber: stringValue(c.PhoneNumber),
		ServiceCity: stringValue(c.ServiceCity),
		FullAddress: stringValue(c.FullAddress),
		Email:       email,
	}
	return user, profile
}

func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return apperrors.NewValidationError("first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return apperrors.NewValidationError("last name is required")
	}
	if strings.TrimSpace(input.CompanyName) == "" {
		return apperrors.NewValidationError("company name is required")
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return apperrors.NewValidationError("phone number is required")
	}
	if input.ProvinceID <= 0 || input.DistrictID <= 0 {
		return apperrors.NewValidationError("province and district selection is required")
	}
	if input.ProvinceName == "" || input.DistrictName == "" {
		return apperrors.NewValidationError("province and district names could not be resolved")
	}
	if strings.TrimSpace(input.FullAddress) == "" {
		return apperrors.NewValidationError("full address is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return apperrors.NewValidationError("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 6 characters")
	}
	return nil
}
