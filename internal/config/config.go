package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/i474232898/agripulse/internal/climate"
)

// AppConfig is read from the environment (optionally seeded from .env) and,
// when CONFIG_FILE is set, from a YAML file with environment overrides.
// API keys only ever come from the environment.
type AppConfig struct {
	Port        string        `yaml:"port" env:"PORT" env-default:"8080"`
	LogLevel    string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT" env-default:"10s"`

	OpenWeatherAPIKey string `yaml:"-" env:"OPENWEATHER_API_KEY"`
	WeatherAPIKey     string `yaml:"-" env:"WEATHERAPI_API_KEY"`
	GeocoderAPIKey    string `yaml:"-" env:"GEOCODER_API_KEY"`

	// FetchInterval controls how often tracked locations are refreshed.
	FetchInterval time.Duration `yaml:"fetch_interval" env:"FETCH_INTERVAL" env-default:"15m"`
	// ClimateMaxAge is how old a stored snapshot may be before a live fetch.
	ClimateMaxAge time.Duration `yaml:"climate_max_age" env:"CLIMATE_MAX_AGE" env-default:"1h"`

	// Comma-separated, position-matched lists of tracked locations.
	LocationCities    string             `yaml:"location_cities" env:"WEATHER_LOCATION_CITY"`
	LocationCountries string             `yaml:"location_countries" env:"WEATHER_LOCATION_COUNTRY"`
	Locations         []climate.Location `yaml:"-"`

	// In-memory snapshot retention.
	StoreMaxHistory int           `yaml:"store_max_history" env:"STORE_MAX_HISTORY" env-default:"96"` // roughly 24h at 15-minute intervals
	StoreMaxAge     time.Duration `yaml:"store_max_age" env:"STORE_MAX_AGE" env-default:"24h"`

	DBPath          string `yaml:"db_path" env:"DB_PATH" env-default:"agripulse.db"`
	CropCatalogPath string `yaml:"crop_catalog_path" env:"CROP_CATALOG_PATH"`

	// PredictorURL points at the yield regressor. Empty means every
	// assessment uses the dataset average as its raw yield.
	PredictorURL       string        `yaml:"predictor_url" env:"PREDICTOR_URL"`
	PredictionCacheTTL time.Duration `yaml:"prediction_cache_ttl" env:"PREDICTION_CACHE_TTL" env-default:"10m"`
}

// Load reads configuration with defaults applied and validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &AppConfig{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	locs, err := parseLocations(cfg.LocationCities, cfg.LocationCountries)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.FetchInterval <= 0 {
		return fmt.Errorf("FETCH_INTERVAL must be positive, got %s", c.FetchInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// parseLocations pairs the city and country lists. An empty city list means
// nothing is tracked; an empty country list leaves every country blank.
func parseLocations(cities, countries string) ([]climate.Location, error) {
	if strings.TrimSpace(cities) == "" {
		return nil, nil
	}
	cityList := splitList(cities)
	var countryList []string
	if strings.TrimSpace(countries) != "" {
		countryList = splitList(countries)
		if len(cityList) != len(countryList) {
			return nil, fmt.Errorf("number of cities (%d) and countries (%d) must be the same", len(cityList), len(countryList))
		}
	}

	locs := make([]climate.Location, 0, len(cityList))
	for i, city := range cityList {
		if city == "" {
			return nil, fmt.Errorf("empty city at position %d in WEATHER_LOCATION_CITY", i+1)
		}
		loc := climate.Location{City: city}
		if countryList != nil {
			loc.Country = countryList[i]
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
