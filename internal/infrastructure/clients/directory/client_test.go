package directory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

func TestHTTPClient_Regions(t *testing.T) {
	ctx := context.Background()

	t.Run("list cities unwraps the data envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/Address/cities", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":[{"provinceId":6,"cityName":"Ankara"},{"provinceId":34,"cityName":"İstanbul"}]}`))
		}))
		defer server.Close()

		cities, err := directory.NewClient(server.URL, time.Second).ListCities(ctx)
		require.NoError(t, err)
		require.Len(t, cities, 2)
		assert.Equal(t, 6, cities[0].ProvinceID)
		assert.Equal(t, "Ankara", cities[0].CityName)
	})

	t.Run("list districts addresses the province path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/Address/districts/6", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":[{"districtId":100,"districtName":"Çankaya"}]}`))
		}))
		defer server.Close()

		districts, err := directory.NewClient(server.URL, time.Second).ListDistricts(ctx, 6)
		require.NoError(t, err)
		require.Len(t, districts, 1)
		assert.Equal(t, "Çankaya", districts[0].DistrictName)
	})

	t.Run("district lookup without a province id fails client-side", func(t *testing.T) {
		_, err := directory.NewClient("http://unused", time.Second).ListDistricts(ctx, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("transport failure maps to a network error", func(t *testing.T) {
		client := directory.NewClient("http://127.0.0.1:1", 200*time.Millisecond)
		_, err := client.ListCities(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
		assert.Contains(t, err.Error(), "directory backend unreachable")
	})

	t.Run("401 maps to unauthorized with the backend message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token expired"}`))
		}))
		defer server.Close()

		_, err := directory.NewClient(server.URL, time.Second).GetProfile(ctx, "stale")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
		assert.Contains(t, err.Error(), "token expired")
	})

	t.Run("other failures carry the backend message when present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"plate already registered"}`))
		}))
		defer server.Close()

		_, err := directory.NewClient(server.URL, time.Second).Login(ctx, directory.LoginRequest{Email: "a@b", Password: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plate already registered")
	})

	t.Run("failures without a message fall back to the status code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := directory.NewClient(server.URL, time.Second).ListCities(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

func TestHTTPClient_Auth(t *testing.T) {
	ctx := context.Background()

	t.Run("bearer token rides on authenticated calls", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		_, err := directory.NewClient(server.URL, time.Second).ListUnits(ctx, "session-token")
		require.NoError(t, err)
	})

	t.Run("register posts the full form", func(t *testing.T) {
		var captured directory.RegistrationRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/Auth/register", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = w.Write([]byte(`{"token":"fresh"}`))
		}))
		defer server.Close()

		res, err := directory.NewClient(server.URL, time.Second).Register(ctx, directory.RegistrationRequest{
			FirstName:  "Ayşe",
			ProvinceID: 6,
			Email:      "a@b",
			Password:   "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", res.Token)
		assert.Equal(t, "Ayşe", captured.FirstName)
		assert.Equal(t, 6, captured.ProvinceID)
	})
}

func TestHTTPClient_UnitForm(t *testing.T) {
	ctx := context.Background()

	t.Run("unit mutations go out as form fields with serialized areas", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/TowTrucks", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "06 ABC 123", r.PostFormValue("LicensePlate"))
			assert.Equal(t, "Mehmet", r.PostFormValue("DriverName"))

			var areas []directory.UnitArea
			require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("AreasJson")), &areas))
			require.Len(t, areas, 1)
			assert.Equal(t, 6, areas[0].ProvinceID)

			_, _ = w.Write([]byte(`{"id":21,"licensePlate":"06 ABC 123","isActive":true}`))
		}))
		defer server.Close()

		record, err := directory.NewClient(server.URL, time.Second).AddUnit(ctx, "session-token", directory.UnitRequest{
			LicensePlate: "06 ABC 123",
			DriverName:   "Mehmet",
			Areas:        []directory.UnitArea{{ProvinceID: 6, DistrictID: 100, City: "Ankara", District: "Çankaya"}},
		})
		require.NoError(t, err)
		require.NotNil(t, record.ID)
		assert.Equal(t, int64(21), *record.ID)
	})

	t.Run("activation toggles hit the verb path", func(t *testing.T) {
		var path, method string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path, method = r.URL.Path, r.Method
		}))
		defer server.Close()

		client := directory.NewClient(server.URL, time.Second)
		require.NoError(t, client.ActivateUnit(ctx, "session-token", 21))
		assert.Equal(t, "/api/TowTrucks/21/activate", path)
		assert.Equal(t, http.MethodPut, method)

		require.NoError(t, client.DeactivateUnit(ctx, "session-token", 21))
		assert.Equal(t, "/api/TowTrucks/21/deactivate", path)

		require.NoError(t, client.DeleteUnit(ctx, "session-token", 21))
		assert.Equal(t, http.MethodDelete, method)
	})
}

func TestHTTPClient_Nearest(t *testing.T) {
	ctx := context.Background()

	t.Run("query parameters are encoded selectively", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/location/nearest", r.URL.Path)
			assert.Equal(t, "6", r.URL.Query().Get("provinceId"))
			assert.Equal(t, "20", r.URL.Query().Get("limit"))
			assert.False(t, r.URL.Query().Has("districtId"))
			assert.False(t, r.URL.Query().Has("latitude"))
			_, _ = w.Write([]byte(`[{"id":1,"isActive":true}]`))
		}))
		defer server.Close()

		units, err := directory.NewClient(server.URL, time.Second).NearestUnits(ctx, directory.NearestQuery{
			ProvinceID: 6,
			Limit:      20,
		})
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.True(t, units[0].IsActive)
	})

	t.Run("legacy endpoint decodes the flat company shape", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/Companies/nearest", r.URL.Path)
			_, _ = w.Write([]byte(`[{"id":9,"companyName":"Bursa Çekici","city":"Bursa","distance":4.2}]`))
		}))
		defer server.Close()

		companies, err := directory.NewClient(server.URL, time.Second).NearestCompanies(ctx, directory.NearestQuery{})
		require.NoError(t, err)
		require.Len(t, companies, 1)
		assert.Equal(t, "Bursa Çekici", *companies[0].CompanyName)
		assert.InDelta(t, 4.2, *companies[0].Distance, 0.001)
	})
}
