package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL": "redis://localhost:6379/0",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":4000", cfg.HTTPAddr())
	require.Equal(t, "http://localhost:5173", cfg.FrontendOrigin)
	require.Equal(t, 30*time.Minute, cfg.FXCacheTTL)
	require.Equal(t, 10*time.Minute, cfg.MetalsCacheTTL)
}

func TestLoadRequiresRedis(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"REDIS_URL": ""})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":       "redis://localhost:6379/0",
		"PORT":            "9000",
		"FX_CACHE_TTL":    "5m",
		"FRONTEND_ORIGIN": "https://noor-e-hadiya.example",
	})
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddr())
	require.Equal(t, 5*time.Minute, cfg.FXCacheTTL)
	require.Equal(t, "https://noor-e-hadiya.example", cfg.FrontendOrigin)
}

func TestMissingStripeKeyIsNotFatal(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":         "redis://localhost:6379/0",
		"STRIPE_SECRET_KEY": "",
	})
	require.NoError(t, err)
	require.Empty(t, cfg.StripeSecretKey)
}
