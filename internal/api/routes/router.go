package routes

import (
	"net/http"

	"github.com/muharrempasbiyik/yoldancek/internal/api/handlers"
	"github.com/muharrempasbiyik/yoldancek/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	catalogHandler     *handlers.CatalogHandler
	locatorHandler     *handlers.LocatorHandler
	geolocationHandler *handlers.GeolocationHandler
	authHandler        *handlers.AuthHandler
	fleetHandler       *handlers.FleetHandler
}

// NewRouter creates a new router
func NewRouter(
	catalogHandler *handlers.CatalogHandler,
	locatorHandler *handlers.LocatorHandler,
	geolocationHandler *handlers.GeolocationHandler,
	authHandler *handlers.AuthHandler,
	fleetHandler *handlers.FleetHandler,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		catalogHandler:     catalogHandler,
		locatorHandler:     locatorHandler,
		geolocationHandler: geolocationHandler,
		authHandler:        authHandler,
		fleetHandler:       fleetHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Region catalog endpoints
	r.mux.HandleFunc("GET /api/regions/provinces", r.catalogHandler.ListProvinces)
	r.mux.HandleFunc("GET /api/regions/districts/{provinceId}", r.catalogHandler.ListDistricts)

	// Provider discovery endpoints
	r.mux.HandleFunc("GET /api/providers/nearest", r.locatorHandler.Nearest)
	r.mux.HandleFunc("GET /api/location/resolve", r.locatorHandler.Resolve)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)

	// Auth and profile endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.HandleFunc("POST /api/auth/logout", r.authHandler.Logout)
	r.mux.HandleFunc("GET /api/auth/session", r.authHandler.Session)
	r.mux.HandleFunc("GET /api/profile", r.authHandler.Profile)
	r.mux.HandleFunc("PUT /api/profile", r.authHandler.UpdateProfile)

	// Fleet endpoints
	r.mux.HandleFunc("GET /api/fleet/units", r.fleetHandler.List)
	r.mux.HandleFunc("POST /api/fleet/units", r.fleetHandler.Add)
	r.mux.HandleFunc("PUT /api/fleet/units/{id}", r.fleetHandler.Update)
	r.mux.HandleFunc("POST /api/fleet/units/{id}/activate", r.fleetHandler.Activate)
	r.mux.HandleFunc("POST /api/fleet/units/{id}/deactivate", r.fleetHandler.Deactivate)
	r.mux.HandleFunc("DELETE /api/fleet/units/{id}", r.fleetHandler.Delete)

	// Apply middleware chain
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
