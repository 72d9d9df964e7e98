package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DIRECTORY_BASE_URL")
	os.Unsetenv("GEOCODER_BASE_URL")
	os.Unsetenv("DEVICE_LATITUDE")
	os.Unsetenv("DEVICE_LONGITUDE")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "https://api.yoldancek.com", cfg.Directory.BaseURL)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoder.BaseURL)
	assert.Equal(t, "yoldan-cek/1.0", cfg.Geocoder.ClientTag)
	assert.Equal(t, float64(1), cfg.Geocoder.RequestsPerSec)
	assert.Equal(t, 8*time.Second, cfg.Device.Timeout)
	assert.False(t, cfg.Device.HasFix)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_DirectoryConfig(t *testing.T) {
	os.Setenv("DIRECTORY_BASE_URL", "http://directory.test")
	os.Setenv("DIRECTORY_TIMEOUT", "3s")
	defer func() {
		os.Unsetenv("DIRECTORY_BASE_URL")
		os.Unsetenv("DIRECTORY_TIMEOUT")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "http://directory.test", cfg.Directory.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Directory.Timeout)
}

func TestLoad_DeviceFix(t *testing.T) {
	t.Run("both coordinates set a fix", func(t *testing.T) {
		os.Setenv("DEVICE_LATITUDE", "39.92")
		os.Setenv("DEVICE_LONGITUDE", "32.85")
		defer func() {
			os.Unsetenv("DEVICE_LATITUDE")
			os.Unsetenv("DEVICE_LONGITUDE")
		}()

		cfg, err := Load()
		assert.NoError(t, err)
		assert.True(t, cfg.Device.HasFix)
		assert.InDelta(t, 39.92, cfg.Device.Latitude, 0.001)
		assert.InDelta(t, 32.85, cfg.Device.Longitude, 0.001)
	})

	t.Run("a lone latitude is not a fix", func(t *testing.T) {
		os.Setenv("DEVICE_LATITUDE", "39.92")
		os.Unsetenv("DEVICE_LONGITUDE")
		defer os.Unsetenv("DEVICE_LATITUDE")

		cfg, err := Load()
		assert.NoError(t, err)
		assert.False(t, cfg.Device.HasFix)
	})
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
}
