package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Farwahi/Noor-e-Hadiya/internal/cart"
	"github.com/Farwahi/Noor-e-Hadiya/internal/catalog"
	"github.com/Farwahi/Noor-e-Hadiya/internal/checkout"
	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
	"github.com/Farwahi/Noor-e-Hadiya/internal/config"
	"github.com/Farwahi/Noor-e-Hadiya/internal/events"
	"github.com/Farwahi/Noor-e-Hadiya/internal/fx"
	"github.com/Farwahi/Noor-e-Hadiya/internal/health"
	"github.com/Farwahi/Noor-e-Hadiya/internal/metals"
	"github.com/Farwahi/Noor-e-Hadiya/internal/obs"
	"github.com/Farwahi/Noor-e-Hadiya/internal/payment"
	"github.com/Farwahi/Noor-e-Hadiya/internal/queue"
	"github.com/Farwahi/Noor-e-Hadiya/internal/ratelimit"
	"github.com/Farwahi/Noor-e-Hadiya/internal/resilience"
	"github.com/Farwahi/Noor-e-Hadiya/internal/reviews"
	"github.com/Farwahi/Noor-e-Hadiya/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	if cfg.StripeSecretKey == "" {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set, online card payments are disabled")
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, webhook signatures will not be verified")
	}

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "noor")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "noor-e-hadiya-api",
			Endpoint:      cfg.OTLPEndpoint,
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	bus := &events.Bus{Notifiers: []events.Notifier{
		events.LogNotifier{Log: logger},
		events.NewMetricsNotifier(prometheus.DefaultRegisterer),
	}}

	outbound := resilience.HTTPClient{
		Client:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Breaker:     resilience.NewBreaker(cfg.BreakerMaxAttempts, 0.5, cfg.BreakerCooldown),
		BaseBackoff: 200 * time.Millisecond,
		MaxAttempts: 3,
		Jitter:      0.2,
		Timeout:     10 * time.Second,
	}

	fxClient := &fx.Client{
		HTTP:  outbound,
		Redis: redisClient,
		TTL:   cfg.FXCacheTTL,
	}

	metalsSvc := &metals.Service{
		Sources: []metals.Source{
			&metals.GoldPriceSource{HTTP: outbound},
			&metals.GoldAPISource{HTTP: outbound},
		},
		FX:    fxClient,
		Redis: redisClient,
		TTL:   cfg.MetalsCacheTTL,
		Log:   logger,
	}
	metalsHandler := &metals.Handler{Svc: metalsSvc}

	catalogHandler := &catalog.Handler{}

	cartStore := &cart.RedisStore{R: redisClient, TTL: cfg.CartTTL}
	unsubscribe := cartStore.Subscribe(func(cartID string) {
		if _, err := bus.Emit(context.Background(), events.TopicCartUpdated, cartID, nil); err != nil {
			logger.Error().Err(err).Str("cart_id", cartID).Msg("emit cart update")
		}
	})
	defer unsubscribe()

	cartHandler := &cart.Handler{
		Store:    cartStore,
		Builder:  &cart.DonationBuilder{FX: fxClient},
		Validate: validator.New(),
	}

	stripeProvider := &payment.StripeProvider{
		Key:           cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Log:           logger,
	}
	enqueuer := queue.Enqueuer{R: redisClient, DedupTTL: 24 * time.Hour}
	paymentHandler := &payment.Handler{
		Provider:       stripeProvider,
		Details:        payment.DefaultDetails(),
		FrontendOrigin: cfg.FrontendOrigin,
		Enqueuer:       enqueuer,
		Log:            logger,
	}

	checkoutSvc := &checkout.Service{
		Cart:           cartStore,
		Provider:       stripeProvider,
		Redis:          redisClient,
		Bus:            bus,
		FrontendOrigin: cfg.FrontendOrigin,
		WhatsAppNumber: cfg.WhatsAppNumber,
		RefTTL:         cfg.ReferenceTTL,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	reviewsHandler := &reviews.Handler{Svc: &reviews.Service{R: redisClient}}

	idem := common.Idem{R: redisClient, TTL: 24 * time.Hour}

	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit"},
		Config: ratelimit.Config{
			Key:    func(r *http.Request) string { return common.ClientIP(r) },
			Window: time.Minute,
			Max:    cfg.RateLimitPerMinute,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(limiter.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      health.RedisPinger{Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", healthHandler.Legacy)

		api.Get("/metals", metalsHandler.PerGram)

		api.Get("/services", catalogHandler.List)
		api.Get("/services/{id}", catalogHandler.Get)

		api.Route("/cart", func(c chi.Router) {
			c.Get("/{id}", cartHandler.Get)
			c.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/{id}/items", cartHandler.AddItem)
				g.Delete("/{id}", cartHandler.Clear)
			})
		})

		api.Route("/checkout/{cartID}", func(c chi.Router) {
			c.Get("/reference", checkoutHandler.Reference)
			c.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/", checkoutHandler.Checkout)
				g.Post("/complete", checkoutHandler.Complete)
			})
		})

		api.Get("/payment-details", paymentHandler.GetDetails)
		api.Post("/create-checkout-session", paymentHandler.CreateSession)
		api.Post("/webhook", paymentHandler.Webhook)

		api.Get("/reviews", reviewsHandler.List)
		api.Post("/reviews", reviewsHandler.Add)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		health.SetReady(false)
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
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

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
