package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Farwahi/Noor-e-Hadiya/internal/config"
	"github.com/Farwahi/Noor-e-Hadiya/internal/events"
	"github.com/Farwahi/Noor-e-Hadiya/internal/fx"
	"github.com/Farwahi/Noor-e-Hadiya/internal/metals"
	"github.com/Farwahi/Noor-e-Hadiya/internal/obs"
	"github.com/Farwahi/Noor-e-Hadiya/internal/queue"
	"github.com/Farwahi/Noor-e-Hadiya/internal/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	bus := &events.Bus{Notifiers: []events.Notifier{
		events.LogNotifier{Log: logger},
	}}

	outbound := resilience.HTTPClient{
		Client:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Breaker:     resilience.NewBreaker(cfg.BreakerMaxAttempts, 0.5, cfg.BreakerCooldown),
		BaseBackoff: 200 * time.Millisecond,
		MaxAttempts: 3,
		Jitter:      0.2,
		Timeout:     10 * time.Second,
	}
	metalsSvc := &metals.Service{
		Sources: []metals.Source{
			&metals.GoldPriceSource{HTTP: outbound},
			&metals.GoldAPISource{HTTP: outbound},
		},
		FX:    &fx.Client{HTTP: outbound, Redis: redisClient, TTL: cfg.FXCacheTTL},
		Redis: redisClient,
		TTL:   cfg.MetalsCacheTTL,
		Log:   logger,
	}

	go warmMetals(ctx, metalsSvc, bus, cfg.MetalsCacheTTL, logger)

	orderWorker := queue.Worker{
		R:                 redisClient,
		Kind:              queue.KindOrderRecord,
		Concurrency:       2,
		VisibilityTimeout: 2 * time.Minute,
		RetryBase:         5 * time.Second,
		RetryJitter:       0.2,
		Handler: func(jobCtx context.Context, task queue.Task) error {
			return recordOrder(logger, task)
		},
	}

	logger.Info().Msg("worker starting")
	if err := orderWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker stopped with error")
	} else {
		logger.Info().Msg("worker shutdown complete")
	}
}

// warmMetals refreshes the spot-price cache ahead of expiry so API reads stay
// warm. Each successful refresh is announced on the event bus.
func warmMetals(ctx context.Context, svc *metals.Service, bus *events.Bus, ttl time.Duration, logger zerolog.Logger) {
	interval := ttl / 2
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := svc.Refresh(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error().Err(err).Msg("refresh metals cache")
		} else if _, err := bus.Emit(ctx, events.TopicMetalsRefreshed, "", nil); err != nil {
			logger.Error().Err(err).Msg("emit metals refresh")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// recordOrder writes a structured log line for a completed Stripe checkout
// session so manual reconciliation has a durable trail.
func recordOrder(logger zerolog.Logger, task queue.Task) error {
	var session struct {
		Data struct {
			Object struct {
				ID                string `json:"id"`
				AmountTotal       int64  `json:"amount_total"`
				Currency          string `json:"currency"`
				ClientReferenceID string `json:"client_reference_id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(task.Payload, &session); err != nil {
		return err
	}

	logger.Info().
		Str("session_id", session.Data.Object.ID).
		Int64("amount_total", session.Data.Object.AmountTotal).
		Str("currency", session.Data.Object.Currency).
		Str("reference", session.Data.Object.ClientReferenceID).
		Msg("order recorded")
	return nil
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
