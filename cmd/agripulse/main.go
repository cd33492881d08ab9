package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/i474232898/agripulse/internal/advisory"
	"github.com/i474232898/agripulse/internal/agronomy"
	httpapi "github.com/i474232898/agripulse/internal/api/http"
	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/climate/providers"
	"github.com/i474232898/agripulse/internal/config"
	"github.com/i474232898/agripulse/internal/logging"
	"github.com/i474232898/agripulse/internal/metrics"
	"github.com/i474232898/agripulse/internal/predictor"
	"github.com/i474232898/agripulse/internal/scheduler"
	"github.com/i474232898/agripulse/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agripulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	m, err := metrics.New()
	if err != nil {
		return err
	}

	// Shared HTTP client for outbound provider and predictor calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory climate history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Providers with resilience (backoff + circuit breaker).
	var provs []climate.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	// Open-Meteo needs no key, but named locations must be geocoded first.
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, providers.GoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	if len(provs) == 0 {
		log.Warn("no climate providers configured; assessments without explicit climate use defaults")
	}

	climateSvc := climate.NewService(memStore, provs, cfg.ClimateMaxAge, log)

	// Scheduler that periodically refreshes tracked locations.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, climateSvc, log, m)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	catalog, err := agronomy.LoadCatalog(cfg.CropCatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load crop catalog: %w", err)
	}
	log.Info("crop catalog loaded", zap.Int("crops", catalog.Len()), zap.String("path", cfg.CropCatalogPath))

	var pred predictor.Predictor = predictor.NewStatic(agronomy.DatasetAverageYield)
	if cfg.PredictorURL != "" {
		pred = predictor.NewCached(predictor.NewHTTPPredictor(httpClient, cfg.PredictorURL), cfg.PredictionCacheTTL)
	}

	assessments, err := store.OpenAssessmentStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open assessment store: %w", err)
	}
	defer func() {
		if err := assessments.Close(); err != nil {
			log.Warn("failed to close assessment store", zap.Error(err))
		}
	}()

	svc := advisory.NewService(advisory.Options{
		Engine:    agronomy.NewEngine(catalog),
		Climate:   climateSvc,
		Predictor: pred,
		Store:     assessments,
		Metrics:   m,
		Logger:    log,
	})

	app := httpapi.NewApp("agripulse")

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		Advisory: svc,
		Climate:  climateSvc,
		Metrics:  m,
	})

	// Start server with graceful shutdown
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	return nil
}
