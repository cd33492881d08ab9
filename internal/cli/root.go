// Package cli implements the agripulsectl commands.
package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/agripulse/internal/advisory"
	"github.com/i474232898/agripulse/internal/agronomy"
	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/climate/providers"
	"github.com/i474232898/agripulse/internal/config"
	"github.com/i474232898/agripulse/internal/logging"
	"github.com/i474232898/agripulse/internal/predictor"
	"github.com/i474232898/agripulse/internal/store"
)

// ServiceBuilder creates the advisory service a command runs against.
// catalogPath overrides the configured crop catalog when non-empty.
type ServiceBuilder func(catalogPath string) (*advisory.Service, error)

// RootCommand creates the agripulsectl command tree.
func RootCommand(build ServiceBuilder) *cobra.Command {
	var catalogPath string

	rootCmd := &cobra.Command{
		Use:           "agripulsectl",
		Short:         "Soil fertility, yield adjustment and fertilizer advice from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Crop catalog file (.yaml, .csv or .xlsx) merged over the built-in catalog")

	service := func() (*advisory.Service, error) {
		return build(catalogPath)
	}

	rootCmd.AddCommand(
		assessCommand(service),
		cropsCommand(service),
	)
	return rootCmd
}

// DefaultServiceBuilder wires the service from the environment the same way
// the server does, minus the scheduler and persistence.
func DefaultServiceBuilder(catalogPath string) (*advisory.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if catalogPath == "" {
		catalogPath = cfg.CropCatalogPath
	}

	log, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return nil, err
	}

	catalog, err := agronomy.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load crop catalog: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var provs []climate.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, providers.GoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	climateSvc := climate.NewService(store.NewMemoryStore(1, 0), provs, 0, log)

	var pred predictor.Predictor = predictor.NewStatic(agronomy.DatasetAverageYield)
	if cfg.PredictorURL != "" {
		pred = predictor.NewHTTPPredictor(httpClient, cfg.PredictorURL)
	}

	log.Debug("cli service ready", zap.Int("providers", len(provs)), zap.Int("crops", catalog.Len()))
	return advisory.NewService(advisory.Options{
		Engine:    agronomy.NewEngine(catalog),
		Climate:   climateSvc,
		Predictor: pred,
		Logger:    log,
	}), nil
}
