package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv         string
	Port           string
	RedisURL       string
	FrontendOrigin string

	StripeSecretKey     string
	StripeWebhookSecret string

	WhatsAppNumber string

	FXCacheTTL     time.Duration
	MetalsCacheTTL time.Duration
	CartTTL        time.Duration
	ReferenceTTL   time.Duration

	RateLimitPerMinute int
	BodyLimitBytes     int64

	BreakerMaxAttempts int
	BreakerCooldown    time.Duration

	OTLPEndpoint string
}

// Load reads configuration from environment variables and optional .env
// files. Only REDIS_URL is hard-required; a missing Stripe key degrades the
// online payment path instead of stopping the process.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:         valueOrDefault(k.String("APP_ENV"), "development"),
		Port:           valueOrDefault(k.String("PORT"), "4000"),
		RedisURL:       k.String("REDIS_URL"),
		FrontendOrigin: valueOrDefault(k.String("FRONTEND_ORIGIN"), "http://localhost:5173"),

		StripeSecretKey:     k.String("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: k.String("STRIPE_WEBHOOK_SECRET"),

		WhatsAppNumber: k.String("WHATSAPP_NUMBER"),

		FXCacheTTL:     parseDuration(k.String("FX_CACHE_TTL"), "30m"),
		MetalsCacheTTL: parseDuration(k.String("METALS_CACHE_TTL"), "10m"),
		CartTTL:        parseDuration(k.String("CART_TTL"), "720h"),
		ReferenceTTL:   parseDuration(k.String("REFERENCE_TTL"), "168h"),

		RateLimitPerMinute: intOrDefault(k.String("RATE_LIMIT_PER_MINUTE"), 120),
		BodyLimitBytes:     int64(intOrDefault(k.String("BODY_LIMIT_BYTES"), 1<<20)),

		BreakerMaxAttempts: intOrDefault(k.String("BREAKER_MAX_ATTEMPTS"), 3),
		BreakerCooldown:    parseDuration(k.String("BREAKER_COOLDOWN"), "30s"),

		OTLPEndpoint: k.String("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "4000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func intOrDefault(value string, fallback int) int {
	base := strings.TrimSpace(value)
	if base == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(base, "%d", &n); err != nil || n <= 0 {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without
// touching the real environment.
func LoadForTests(envVars map[string]string) (*Config, error) {
	original := make(map[string]string, len(envVars))
	for key := range envVars {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, envVars[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
