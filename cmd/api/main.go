package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctordirectory/internal/adapters/cache"
	"github.com/zatekoja/doctordirectory/internal/adapters/database"
	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/api/routes"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/llm"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/redis"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.App.Name, cfg.App.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		logger.Fatal().Err(err).Msg("failed to create schema")
	}

	healthChecks := map[string]handlers.HealthCheck{"postgres": pgClient.Ping}

	// Redis is optional; without it reads go straight to PostgreSQL
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, running without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, cfg.App.Name)
			healthChecks["redis"] = redisClient.Ping
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache enabled")
		}
	}

	doctorRepo := database.NewDoctorAdapter(pgClient)
	if cacheProvider != nil {
		doctorRepo = database.NewCachedDoctorAdapter(doctorRepo, cacheProvider, metrics)
	}

	provider, closeProvider, err := llm.NewProvider(cfg)
	switch {
	case errors.Is(err, llm.ErrProviderDisabled):
		logger.Info().Msg("symptom analysis disabled, checker will show the fallback notice")
	case err != nil:
		logger.Warn().Err(err).Str("provider", cfg.AI.Provider).Msg("symptom analysis provider not configured")
	default:
		logger.Info().Str("provider", cfg.AI.Provider).Msg("symptom analysis provider ready")
	}
	defer closeProvider()

	doctorService := services.NewDoctorService(doctorRepo)
	symptomChecker := services.NewSymptomCheckerService(provider, doctorRepo)
	symptomChecker.SetMetrics(metrics)
	if cacheProvider != nil {
		symptomChecker.SetCache(cacheProvider, cfg.AI.CacheTTL)
	} else {
		// Analyses are still worth keeping per process when Redis is off
		symptomChecker.SetCache(cache.NewBoundedMemoryAdapter(cache.DefaultMemoryCacheSize, cfg.AI.CacheTTL), cfg.AI.CacheTTL)
	}

	renderer, err := handlers.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	router := routes.NewRouter(
		handlers.NewPageHandler(doctorService, symptomChecker, renderer),
		handlers.NewDoctorAPIHandler(doctorService, symptomChecker),
		handlers.NewHealthHandler(healthChecks),
		middleware.ParseAllowedOrigins(cfg.Server.AllowedOrigins),
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
