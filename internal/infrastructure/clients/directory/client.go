package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

// Client is the directory/auth backend surface this system consumes. The
// backend owns persistence; we are strictly a caller.
type Client interface {
	ListCities(ctx context.Context) ([]CityRecord, error)
	ListDistricts(ctx context.Context, provinceID int) ([]DistrictRecord, error)

	Register(ctx context.Context, req RegistrationRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, token string) (*CompanyRecord, error)
	UpdateProfile(ctx context.Context, token string, req ProfileUpdateRequest) (*CompanyRecord, error)

	NearestUnits(ctx context.Context, q NearestQuery) ([]UnitRecord, error)
	NearestCompanies(ctx context.Context, q NearestQuery) ([]CompanyRecord, error)

	ListUnits(ctx context.Context, token string) ([]UnitRecord, error)
	AddUnit(ctx context.Context, token string, req UnitRequest) (*UnitRecord, error)
	UpdateUnit(ctx context.Context, token string, id int64, req UnitRequest) (*UnitRecord, error)
	ActivateUnit(ctx context.Context, token string, id int64) error
	DeactivateUnit(ctx context.Context, token string, id int64) error
	DeleteUnit(ctx context.Context, token string, id int64) error
}

// HTTPClient implements Client over REST/JSON with a bearer token attached
// per request.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new directory backend client.
func NewClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CityRecord is one row of the flat city list. Many rows may share a
// province id.
type CityRecord struct {
	ID         string `json:"id,omitempty"`
	ProvinceID int    `json:"provinceId"`
	CityName   string `json:"cityName,omitempty"`
}

// DistrictRecord is one district of a province.
type DistrictRecord struct {
	ID           string `json:"id,omitempty"`
	DistrictID   int    `json:"districtId"`
	DistrictName string `json:"districtName,omitempty"`
}

// CompanyRecord is the flat, company-level shape returned by the profile
// and legacy nearest endpoints. Field presence is uncertain; everything
// optional is a pointer.
type CompanyRecord struct {
	ID          *int64   `json:"id,omitempty"`
	CompanyName *string  `json:"companyName,omitempty"`
	FirstName   *string  `json:"firstName,omitempty"`
	LastName    *string  `json:"lastName,omitempty"`
	City        *string  `json:"city,omitempty"`
	District    *string  `json:"district,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
	ServiceCity *string  `json:"serviceCity,omitempty"`
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
	Email       *string  `json:"email,omitempty"`
	FullAddress *string  `json:"fullAddress,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// AreaRecord is a server-declared operating area of one unit.
type AreaRecord struct {
	ProvinceID *int     `json:"provinceId,omitempty"`
	DistrictID *int     `json:"districtId,omitempty"`
	City       *string  `json:"city,omitempty"`
	District   *string  `json:"district,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// UnitRecord is the rich, per-unit shape returned by the primary nearest
// endpoint and the fleet endpoints.
type UnitRecord struct {
	ID               *int64       `json:"id,omitempty"`
	LicensePlate     *string      `json:"licensePlate,omitempty"`
	DriverName       *string      `json:"driverName,omitempty"`
	DriverPhotoURL   *string      `json:"driverPhotoUrl,omitempty"`
	IsActive         bool         `json:"isActive"`
	OperatingAreas   []AreaRecord `json:"operatingAreas,omitempty"`
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
	CurrentLatitude  *float64     `json:"currentLatitude,omitempty"`
	CurrentLongitude *float64     `json:"currentLongitude,omitempty"`
	CompanyPhone     *string      `json:"companyPhone,omitempty"`
	CompanyEmail     *string      `json:"companyEmail,omitempty"`
	CompanyService   *string      `json:"companyServiceCity,omitempty"`
	CompanyAddress   *string      `json:"companyAddress,omitempty"`
	Distance         *float64     `json:"distance,omitempty"`
}

// AuthResponse is the register/login result.
type AuthResponse struct {
	Token     string         `json:"token,omitempty"`
	ExpiresAt string         `json:"expiresAt,omitempty"`
	Company   *CompanyRecord `json:"company,omitempty"`
}

// RegistrationRequest registers a new provider.
type RegistrationRequest struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	CompanyName string   `json:"companyName"`
	PhoneNumber string   `json:"phoneNumber"`
	ProvinceID  int      `json:"provinceId"`
	DistrictID  int      `json:"districtId"`
	City        string   `json:"city,omitempty"`
	District    string   `json:"district,omitempty"`
	FullAddress string   `json:"fullAddress"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	ServiceCity string   `json:"serviceCity"`
	ServiceDist string   `json:"serviceDistrict,omitempty"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
}

// LoginRequest authenticates an existing provider.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest carries only the fields being changed.
type ProfileUpdateRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	ServiceCity *string `json:"serviceCity,omitempty"`
	FullAddress *string `json:"fullAddress,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// UnitArea is one declared operating area in a unit mutation.
type UnitArea struct {
	ProvinceID int    `json:"provinceId"`
	DistrictID int    `json:"districtId"`
	City       string `json:"city,omitempty"`
	District   string `json:"district,omitempty"`
}

// UnitRequest adds or updates a service unit.
type UnitRequest struct {
	LicensePlate string
	DriverName   string
	Areas        []UnitArea
}

// NearestQuery filters a nearest lookup. Coordinates and the region pair
// are mutually exclusive on the wire; absent ints are omitted.
type NearestQuery struct {
	Latitude   *float64
	Longitude  *float64
	ProvinceID int
	DistrictID int
	Limit      int
}

func (q NearestQuery) values() url.Values {
	query := url.Values{}
	if q.Latitude != nil {
		query.Set("latitude", fmt.Sprintf("%f", *q.Latitude))
	}
	if q.Longitude != nil {
		query.Set("longitude", fmt.Sprintf("%f", *q.Longitude))
	}
	if q.ProvinceID > 0 {
		query.Set("provinceId", fmt.Sprintf("%d", q.ProvinceID))
	}
	if q.DistrictID > 0 {
		query.Set("districtId", fmt.Sprintf("%d", q.DistrictID))
	}
	if q.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	return query
}

// ListCities returns the flat city list backing the province catalog.
func (c *HTTPClient) ListCities(ctx context.Context) ([]CityRecord, error) {
	var response struct {
		Data []CityRecord `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/Address/cities", "", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ListDistricts returns the districts of one province.
func (c *HTTPClient) ListDistricts(ctx context.Context, provinceID int) ([]DistrictRecord, error) {
	if provinceID <= 0 {
		return nil, apperrors.NewValidationError("province id is required")
	}
	var response struct {
		Data []DistrictRecord `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/api/Address/districts/%d", c.baseURL, provinceID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, "", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Register creates a new provider account.
func (c *HTTPClient) Register(ctx context.Context, req RegistrationRequest) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/Auth/register", "", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates an existing provider.
func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/Auth/login", "", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProfile fetches the authenticated provider profile.
func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*CompanyRecord, error) {
	out := &CompanyRecord{}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/Profile", token, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile updates the authenticated provider profile.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, req ProfileUpdateRequest) (*CompanyRecord, error) {
	out := &CompanyRecord{}
	if err := c.doJSON(ctx, http.MethodPut, c.baseURL+"/api/Companies/me", token, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// NearestUnits queries the primary nearest endpoint, which returns rich
// unit records with their operating areas.
func (c *HTTPClient) NearestUnits(ctx context.Context, q NearestQuery) ([]UnitRecord, error) {
	endpoint := c.baseURL + "/api/location/nearest"
	if qs := q.values().Encode(); qs != "" {
		endpoint += "?" + qs
	}
	var out []UnitRecord
	if err := c.doJSON(ctx, http.MethodGet, endpoint, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NearestCompanies queries the legacy nearest endpoint, which returns
// flatter company-level records without per-area detail.
func (c *HTTPClient) NearestCompanies(ctx context.Context, q NearestQuery) ([]CompanyRecord, error) {
	endpoint := c.baseURL + "/api/Companies/nearest"
	if qs := q.values().Encode(); qs != "" {
		endpoint += "?" + qs
	}
	var out []CompanyRecord
	if err := c.doJSON(ctx, http.MethodGet, endpoint, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnits lists the authenticated provider's own fleet.
func (c *HTTPClient) ListUnits(ctx context.Context, token string) ([]UnitRecord, error) {
	var out []UnitRecord
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/TowTrucks/my", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddUnit registers a new service unit. The backend takes unit mutations
// as form fields with the area list serialized into AreasJson.
func (c *HTTPClient) AddUnit(ctx context.Context, token string, req UnitRequest) (*UnitRecord, error) {
	out := &UnitRecord{}
	if err := c.doUnitForm(ctx, http.MethodPost, c.baseURL+"/api/TowTrucks", token, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUnit updates an existing service unit.
func (c *HTTPClient) UpdateUnit(ctx context.Context, token string, id int64, req UnitRequest) (*UnitRecord, error) {
	out := &UnitRecord{}
	endpoint := fmt.Sprintf("%s/api/TowTrucks/%d", c.baseURL, id)
	if err := c.doUnitForm(ctx, http.MethodPut, endpoint, token, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivateUnit marks a unit active.
func (c *HTTPClient) ActivateUnit(ctx context.Context, token string, id int64) error {
	endpoint := fmt.Sprintf("%s/api/TowTrucks/%d/activate", c.baseURL, id)
	return c.doJSON(ctx, http.MethodPut, endpoint, token, nil, nil)
}

// DeactivateUnit marks a unit inactive.
func (c *HTTPClient) DeactivateUnit(ctx context.Context, token string, id int64) error {
	endpoint := fmt.Sprintf("%s/api/TowTrucks/%d/deactivate", c.baseURL, id)
	return c.doJSON(ctx, http.MethodPut, endpoint, token, nil, nil)
}

// DeleteUnit removes a unit.
func (c *HTTPClient) DeleteUnit(ctx context.Context, token string, id int64) error {
	endpoint := fmt.Sprintf("%s/api/TowTrucks/%d", c.baseURL, id)
	return c.doJSON(ctx, http.MethodDelete, endpoint, token, nil, nil)
}

func (c *HTTPClient) doUnitForm(ctx context.Context, method, endpoint, token string, req UnitRequest, out any) error {
	areas, err := json.Marshal(req.Areas)
	if err != nil {
		return apperrors.NewInternalError("failed to encode areas", err)
	}
	form := url.Values{}
	form.Set("LicensePlate", req.LicensePlate)
	form.Set("DriverName", req.DriverName)
	form.Set("AreasJson", string(areas))

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewInternalError("failed to build directory request", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(httpReq, out)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to build directory request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(httpReq, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError("directory backend unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError("failed to read directory response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := backendMessage(raw)
		if resp.StatusCode == http.StatusUnauthorized {
			if message == "" {
				message = "session rejected by directory backend"
			}
			return apperrors.NewUnauthorizedError(message)
		}
		if message == "" {
			message = fmt.Sprintf("directory backend returned status %d", resp.StatusCode)
		}
		return apperrors.NewNetworkError(message, nil)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewNetworkError("failed to decode directory response", err)
	}
	return nil
}

// backendMessage pulls the backend's message field out of an error body
// when there is one.
func backendMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
