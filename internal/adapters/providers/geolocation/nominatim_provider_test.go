package geolocation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muharrempasbiyik/yoldancek/internal/adapters/providers/geolocation"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

func nominatimServer(t *testing.T, address map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"display_name": "somewhere",
			"address":      address,
		}))
	}))
}

func reverseGeocode(t *testing.T, baseURL string, lat, lng float64) (*providers.Place, error) {
	t.Helper()
	geocoder := geolocation.NewNominatimProvider(geolocation.Options{
		BaseURL:        baseURL,
		ClientTag:      "test-client/1.0",
		RequestsPerSec: 1000,
	})
	return geocoder.ReverseGeocode(context.Background(), lat, lng)
}

func TestNominatimProvider_FieldPriority(t *testing.T) {
	t.Run("state beats province for the province slot", func(t *testing.T) {
		server := nominatimServer(t, map[string]string{
			"state":    "Ankara",
			"province": "Shadowed",
			"town":     "Çankaya",
		})
		defer server.Close()

		place, err := reverseGeocode(t, server.URL, 39.92, 32.85)
		require.NoError(t, err)
		assert.Equal(t, "Ankara", place.ProvinceName)
		assert.Equal(t, "Çankaya", place.DistrictName)
	})

	t.Run("lower-priority fields fill in when earlier ones are absent", func(t *testing.T) {
		server := nominatimServer(t, map[string]string{
			"state_district": "Marmara",
			"municipality":   "Gemlik",
		})
		defer server.Close()

		place, err := reverseGeocode(t, server.URL, 40.43, 29.15)
		require.NoError(t, err)
		assert.Equal(t, "Marmara", place.ProvinceName)
		assert.Equal(t, "Gemlik", place.DistrictName)
	})

	t.Run("one empty slot is tolerated", func(t *testing.T) {
		server := nominatimServer(t, map[string]string{"city": "İstanbul"})
		defer server.Close()

		place, err := reverseGeocode(t, server.URL, 41.0, 29.0)
		require.NoError(t, err)
		assert.Empty(t, place.ProvinceName)
		assert.Equal(t, "İstanbul", place.DistrictName)
	})

	t.Run("whitespace-only values are skipped", func(t *testing.T) {
		server := nominatimServer(t, map[string]string{
			"state":  "  ",
			"region": "İç Anadolu",
			"town":   "Çankaya",
		})
		defer server.Close()

		place, err := reverseGeocode(t, server.URL, 39.92, 32.85)
		require.NoError(t, err)
		assert.Equal(t, "İç Anadolu", place.ProvinceName)
	})
}

func TestNominatimProvider_Errors(t *testing.T) {
	t.Run("no usable field is a geocode error", func(t *testing.T) {
		server := nominatimServer(t, map[string]string{"country": "Türkiye"})
		defer server.Close()

		_, err := reverseGeocode(t, server.URL, 0, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeocode))
	})

	t.Run("upstream failure is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := reverseGeocode(t, server.URL, 0, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		_, err := reverseGeocode(t, "http://127.0.0.1:1", 0, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	})

	t.Run("garbage body is a geocode error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		_, err := reverseGeocode(t, server.URL, 0, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeocode))
	})
}

func TestNominatimProvider_ClientTag(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"address": map[string]string{"state": "Ankara"},
		}))
	}))
	defer server.Close()

	_, err := reverseGeocode(t, server.URL, 39.92, 32.85)
	require.NoError(t, err)
	assert.Equal(t, "test-client/1.0", agent)
}
