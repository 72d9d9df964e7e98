package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muharrempasbiyik/yoldancek/internal/adapters/cache"
	"github.com/muharrempasbiyik/yoldancek/internal/adapters/providers/geolocation"
	"github.com/muharrempasbiyik/yoldancek/internal/api/handlers"
	"github.com/muharrempasbiyik/yoldancek/internal/api/routes"
	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/directory"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/clients/redis"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/observability"
	"github.com/muharrempasbiyik/yoldancek/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.Log.ServiceName, cfg.Log.Environment)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the session store, falling back to an in-process store
	// when Redis is unreachable so the app still serves requests
	var sessionStore providers.CacheProvider
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, session state will not survive restarts")
		sessionStore = cache.NewMemoryAdapter()
	} else {
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis client initialized")
		sessionStore = cache.NewRedisAdapter(redisClient)
	}

	// Initialize outbound clients
	directoryClient := directory.NewClient(cfg.Directory.BaseURL, cfg.Directory.Timeout)

	geocoder := geolocation.NewNominatimProvider(geolocation.Options{
		BaseURL:        cfg.Geocoder.BaseURL,
		ClientTag:      cfg.Geocoder.ClientTag,
		RequestsPerSec: cfg.Geocoder.RequestsPerSec,
		HTTPClient:     &http.Client{Timeout: cfg.Geocoder.Timeout},
	})

	var deviceSource providers.DeviceLocator
	if cfg.Device.HasFix {
		deviceSource = geolocation.NewFixedSource(entities.Coordinates{
			Latitude:  cfg.Device.Latitude,
			Longitude: cfg.Device.Longitude,
		}, cfg.Device.Timeout)
		logger.Info().
			Float64("latitude", cfg.Device.Latitude).
			Float64("longitude", cfg.Device.Longitude).
			Msg("device position configured from environment")
	} else {
		deviceSource = geolocation.NewUnavailableSource()
	}

	// Initialize services
	sessionService := services.NewSessionService(sessionStore)
	sessionService.Restore(ctx)

	catalogService := services.NewCatalogService(directoryClient)
	resolverService := services.NewResolverService(catalogService, sessionService)
	locatorService := services.NewLocatorService(
		directoryClient,
		resolverService,
		catalogService,
		geocoder,
		deviceSource,
		cfg.Directory.PhotoBaseOrigin,
	)
	authService := services.NewAuthService(directoryClient, sessionService)
	fleetService := services.NewFleetService(
		directoryClient,
		catalogService,
		resolverService,
		sessionService,
		locatorService,
	)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	locatorHandler := handlers.NewLocatorHandler(locatorService)
	geolocationHandler := handlers.NewGeolocationHandler(geocoder)
	authHandler := handlers.NewAuthHandler(authService, sessionService)
	fleetHandler := handlers.NewFleetHandler(fleetService)

	// Set up router
	router := routes.NewRouter(
		catalogHandler,
		locatorHandler,
		geolocationHandler,
		authHandler,
		fleetHandler,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	// Flush session state before the process exits
	sessionService.Persist(context.Background())

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
