package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	searchapp "github.com/shopscout/backend/internal/application/search"
	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/cache"
	"github.com/shopscout/backend/internal/infrastructure/config"
	"github.com/shopscout/backend/internal/infrastructure/logger"
	"github.com/shopscout/backend/internal/infrastructure/marketplace"
	"github.com/shopscout/backend/internal/infrastructure/persistence"
	"github.com/shopscout/backend/internal/infrastructure/telemetry"
	"github.com/shopscout/backend/internal/interfaces/http/handler"
	"github.com/shopscout/backend/internal/interfaces/http/middleware"
	"github.com/shopscout/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = baseLog.Sync()
	}()

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log := telemetry.Bridge(baseLog, cfg.Telemetry.ServiceName, loggerProvider)

	log.Info("Starting ShopScout",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	searchMetrics, err := telemetry.NewSearchMetrics(meter)
	if err != nil {
		log.Warn("Search metrics unavailable", zap.Error(err))
	}

	// Result cache
	resultCache, err := cache.NewResultCacheFactory(cfg.Redis,
		cache.WithLogger(log.Named("cache")),
		cache.WithKeyPrefix(cfg.Search.CacheKeyPrefix),
	).Create(cfg.Search.CacheBackend)
	if err != nil {
		log.Fatal("Failed to create result cache", zap.Error(err))
	}

	// Optional database for credential overrides and search history
	var db *persistence.Database
	if cfg.Database.Enabled {
		db, err = persistence.NewDatabase(&cfg.Database, log.Named("gorm"))
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		log.Info("Database connected successfully")

		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = cfg.Telemetry.Enabled
		dbTracing.SlowQueryThresh = cfg.Database.SlowThreshold
		if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Provider registry
	adapters := marketplace.NewFactory(cfg.Marketplace)
	registryOpts := []searchapp.RegistryOption{searchapp.WithRegistryLogger(log.Named("registry"))}
	if db != nil {
		registryOpts = append(registryOpts,
			searchapp.WithCredentialRepository(persistence.NewCredentialRepository(db.DB)))
	}
	registry, err := searchapp.NewRegistry(
		searchapp.SpecsFromFactory(adapters),
		registryOpts...,
	)
	if err != nil {
		log.Fatal("Failed to create provider registry", zap.Error(err))
	}
	if err := registry.Refresh(ctx); err != nil {
		log.Warn("Starting with statically configured providers", zap.Error(err))
	}
	log.Info("Providers enabled", zap.Strings("providers", providerNames(registry.Enabled())))

	// Search service
	serviceOpts := []searchapp.ServiceOption{
		searchapp.WithResultCache(resultCache),
		searchapp.WithSearchMetrics(searchMetrics),
		searchapp.WithServiceLogger(log.Named("search")),
	}
	var history *searchapp.HistoryRecorder
	if db != nil && cfg.Search.HistoryEnabled {
		history = searchapp.NewHistoryRecorder(
			persistence.NewSearchHistoryRepository(db.DB),
			searchapp.DefaultHistoryRecorderConfig(),
			log.Named("history"),
		)
		if err := history.Start(ctx); err != nil {
			log.Fatal("Failed to start search history recorder", zap.Error(err))
		}
		serviceOpts = append(serviceOpts, searchapp.WithHistoryRecorder(history))
	}

	service := searchapp.NewService(
		registry,
		searchapp.NewDispatcher(searchapp.DispatcherConfig{
			AdapterTimeout: cfg.Search.AdapterTimeout,
			MaxConcurrency: cfg.Search.MaxConcurrency,
		}, searchMetrics),
		searchapp.NewNormalizer(searchapp.NormalizerConfig{
			RequirePrice:      cfg.Search.RequirePrice,
			DefaultCurrencies: adapters.DefaultCurrencies(),
		}),
		searchapp.ServiceConfig{
			Limits:    search.LimitPolicy{Default: cfg.Search.DefaultLimit, Max: cfg.Search.MaxLimit},
			RankDecay: cfg.Search.RankDecay,
			CacheTTL:  cfg.Search.CacheTTL,
		},
		serviceOpts...,
	)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engineConfig := router.EngineConfig{
		Logger:         log,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		CORS:           corsConfig,
		RateLimiter:    limiter,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}
	if cfg.Telemetry.MetricsEnabled {
		engineConfig.Meter = meter
	}
	engine, err := router.NewEngine(engineConfig)
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	var dbPinger handler.Pinger
	if db != nil {
		dbPinger = db
	}
	router.NewRouter(engine).
		Register(handler.NewSearchHandler(service, cfg.Search.DebugEnabled)).
		Register(handler.NewSystemHandler(service, dbPinger, cfg.App.Name, telemetry.ServiceVersion)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if limiter != nil {
		limiter.Stop()
	}
	if history != nil {
		if err := history.Stop(shutdownCtx); err != nil {
			log.Warn("Search history recorder did not drain", zap.Error(err))
		}
	}
	if closer, ok := resultCache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Error closing result cache", zap.Error(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			baseLog.Warn("Telemetry provider shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	baseLog.Info("Server exited gracefully")
}

func providerNames(ids []search.ProviderID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}
