package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Directory DirectoryConfig
	Geocoder  GeocoderConfig
	Device    DeviceConfig
	Log       LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DirectoryConfig holds directory/auth backend configuration
type DirectoryConfig struct {
	BaseURL string
	// PhotoBaseOrigin is prepended to relative photo paths returned by the
	// directory backend
	PhotoBaseOrigin string
	Timeout         time.Duration
}

// GeocoderConfig holds reverse-geocoding collaborator configuration
type GeocoderConfig struct {
	BaseURL string
	// ClientTag identifies this client to the geocoding collaborator
	ClientTag      string
	RequestsPerSec float64
	Timeout        time.Duration
}

// DeviceConfig holds fixed-installation device positioning configuration.
// Deployments with a known mount point declare their coordinates here;
// everything else reports position acquisition as unavailable.
type DeviceConfig struct {
	Latitude  float64
	Longitude float64
	HasFix    bool
	Timeout   time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	ServiceName string
	Environment string
}

// Load loads configuration from the environment, reading a local .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Directory: DirectoryConfig{
			BaseURL:         getEnv("DIRECTORY_BASE_URL", "https://api.yoldancek.com"),
			PhotoBaseOrigin: getEnv("DIRECTORY_PHOTO_ORIGIN", "https://api.yoldancek.com"),
			Timeout:         getEnvAsDuration("DIRECTORY_TIMEOUT", 10*time.Second),
		},
		Geocoder: GeocoderConfig{
			BaseURL:        getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			ClientTag:      getEnv("GEOCODER_CLIENT_TAG", "yoldan-cek/1.0"),
			RequestsPerSec: getEnvAsFloat("GEOCODER_RPS", 1),
			Timeout:        getEnvAsDuration("GEOCODER_TIMEOUT", 10*time.Second),
		},
		Device: DeviceConfig{
			Timeout: getEnvAsDuration("DEVICE_TIMEOUT", 8*time.Second),
		},
		Log: LogConfig{
			ServiceName: getEnv("SERVICE_NAME", "yoldancek"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
	}

	if lat, ok := lookupEnvAsFloat("DEVICE_LATITUDE"); ok {
		if lng, ok := lookupEnvAsFloat("DEVICE_LONGITUDE"); ok {
			cfg.Device.Latitude = lat
			cfg.Device.Longitude = lng
			cfg.Device.HasFix = true
		}
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, ok := lookupEnvAsFloat(key); ok {
		return value
	}
	return defaultValue
}

func lookupEnvAsFloat(key string) (float64, bool) {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal, true
		}
	}
	return 0, false
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
