package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org"
	defaultHTTPTimeout = 10 * time.Second
	defaultRPS         = 1
)

// provinceFields and districtFields are the address-object keys tried, in
// priority order, when reducing an inconsistent upstream taxonomy to one
// name each. First non-empty wins.
var (
	provinceFields = []string{"state", "province", "region", "state_district"}
	districtFields = []string{"town", "city", "county", "suburb", "village", "municipality"}
)

// NominatimProvider implements ReverseGeocoder against a Nominatim-style
// reverse endpoint. Requests carry an identifying client tag and are rate
// limited per the public instance usage policy.
type NominatimProvider struct {
	baseURL    string
	clientTag  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Options overrides the defaults of a NominatimProvider.
type Options struct {
	BaseURL        string
	ClientTag      string
	RequestsPerSec float64
	HTTPClient     *http.Client
}

// NewNominatimProvider creates a new Nominatim reverse-geocoding provider.
func NewNominatimProvider(opts Options) providers.ReverseGeocoder {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = nominatimBaseURL
	}
	rps := opts.RequestsPerSec
	if rps <= 0 {
		rps = defaultRPS
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		baseURL:    baseURL,
		clientTag:  opts.ClientTag,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// ReverseGeocode converts coordinates to a province/district guess.
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*providers.Place, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewNetworkError("reverse geocode cancelled while rate limited", err)
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lng))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	reqURL := fmt.Sprintf("%s/reverse?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build reverse geocode request", err)
	}
	if p.clientTag != "" {
		req.Header.Set("User-Agent", p.clientTag)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("reverse geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("reverse geocode returned status %d", resp.StatusCode), nil)
	}

	var payload nominatimReverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewGeocodeError("failed to decode reverse geocode response", err)
	}

	provinceName := firstField(payload.Address, provinceFields)
	districtName := firstField(payload.Address, districtFields)
	if provinceName == "" && districtName == "" {
		return nil, apperrors.NewGeocodeError("no usable address field in reverse geocode result", nil)
	}

	return &providers.Place{
		ProvinceName: provinceName,
		DistrictName: districtName,
		Coordinates:  entities.Coordinates{Latitude: lat, Longitude: lng},
	}, nil
}

func firstField(address map[string]string, fields []string) string {
	for _, field := range fields {
		if value := strings.TrimSpace(address[field]); value != "" {
			return value
		}
	}
	return ""
}

type nominatimReverseResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}
