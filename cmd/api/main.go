// Package main is the entrypoint for the usuarios API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/holadocker/usuarios/internal/cache"
	"github.com/holadocker/usuarios/internal/config"
	"github.com/holadocker/usuarios/internal/handler"
	"github.com/holadocker/usuarios/internal/metrics"
	"github.com/holadocker/usuarios/internal/middleware"
	"github.com/holadocker/usuarios/internal/repository"
	"github.com/holadocker/usuarios/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	var recorder metrics.Recorder = metrics.NewNoop()
	var promRecorder *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		promRecorder = metrics.NewPrometheus()
		recorder = promRecorder
	}

	// No connection is made here: each request dials its own.
	connector, err := repository.NewConnector(cfg.Database, recorder, logger)
	if err != nil {
		logger.Error("failed to configure database", "error", err)
		os.Exit(1)
	}
	repo := repository.New(connector)
	logger.Info("database configured",
		slog.String("driver", cfg.Database.Driver),
		slog.String("dsn", cfg.Database.Redacted()),
	)

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	deps := routerDeps{
		repo:     repo,
		cache:    cacheClient,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	}
	if promRecorder != nil {
		deps.gatherer = promRecorder.Gatherer()
	}

	srv := server.New(
		setupRouter(deps),
		cfg.Addr(),
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"addr", cfg.Addr(),
		"env", cfg.AppEnv,
		"rate_limit", cfg.RateLimitActive(),
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps carries everything setupRouter wires. A nil cache disables
// rate limiting and the Redis readiness check; a nil gatherer makes
// /metrics answer 503.
type routerDeps struct {
	repo     *repository.Repository
	cache    *cache.Cache
	recorder metrics.Recorder
	gatherer prometheus.Gatherer
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	if d.cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Metrics(d.recorder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(d.cfg.GetCORSAllowedOrigins()))

	h := handler.New()
	usersHandler := handler.NewUsersHandler(d.repo, d.logger)
	metricsHandler := handler.NewMetricsHandler(d.gatherer)

	// Typed nils must not reach the interfaces below.
	var cacheChecker handler.HealthChecker
	var limiter middleware.IPRateLimiter
	if d.cache != nil {
		cacheChecker = d.cache
		limiter = d.cache
	}
	healthHandler := handler.NewHealthHandler(d.repo, cacheChecker)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:   d.logger,
		Limiter:  limiter,
		Recorder: d.recorder,
		Enabled:  d.cfg.RateLimitActive(),
		RPS:      d.cfg.RateLimitRPS,
		Burst:    d.cfg.RateLimitBurst,
	}

	r.Get("/", h.Hello)
	r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/usuarios", usersHandler.List)

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if d.cfg.MetricsEnabled {
		r.Get("/metrics", metricsHandler.Metrics)
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
