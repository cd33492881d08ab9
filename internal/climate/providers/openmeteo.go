package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/httpclient"
)

// GeocodeFunc resolves a named location to coordinates.
type GeocodeFunc func(ctx context.Context, loc climate.Location) (lat, lon float64, err error)

// GoogleGeocoder resolves locations through the Google Geocoding API.
// The geocoder library keeps its key in a package variable, so it is set once here.
func GoogleGeocoder(apiKey string) GeocodeFunc {
	geocoder.ApiKey = apiKey
	return func(ctx context.Context, loc climate.Location) (float64, float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		l, err := geocoder.Geocoding(geocoder.Address{City: loc.City, Country: loc.Country})
		if err != nil {
			return 0, 0, fmt.Errorf("geocode %s: %w", loc.Query(), err)
		}
		return l.Latitude, l.Longitude, nil
	}
}

var errNoCoordinates = errors.New("openmeteo requires coordinates or a geocoder")

// OpenMeteoProvider implements climate.Provider for Open-Meteo. It needs
// coordinates; named locations are geocoded first.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	geocode GeocodeFunc
	httpCfg httpclient.Config
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the provider. geocode may be nil when every
// tracked location carries coordinates.
func NewOpenMeteoProvider(client *http.Client, geocode GeocodeFunc) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		geocode: geocode,
		httpCfg: httpclient.NewConfig(client),
		circuit: httpclient.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc climate.Location) (climate.ProviderReading, error) {
	lat, lon, err := p.coordinates(ctx, loc)
	if err != nil {
		return climate.ProviderReading{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
		values.Set("current_weather", "true")
		values.Set("windspeed_unit", "ms")
		values.Set("timezone", "UTC")
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := httpclient.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return climate.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			Time        string  `json:"time"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return climate.ProviderReading{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	// Open-Meteo reports minutes-resolution ISO times without a zone.
	ts, err := time.Parse("2006-01-02T15:04", payload.CurrentWeather.Time)
	if err != nil {
		ts = time.Now()
	}

	return climate.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts.UTC(),
		TemperatureC: payload.CurrentWeather.Temperature,
		WindSpeedMS:  payload.CurrentWeather.WindSpeed,
		Condition:    mapOpenMeteoCondition(payload.CurrentWeather.WeatherCode),
	}, nil
}

func (p *OpenMeteoProvider) coordinates(ctx context.Context, loc climate.Location) (float64, float64, error) {
	if loc.Lat != nil && loc.Lon != nil {
		return *loc.Lat, *loc.Lon, nil
	}
	if p.geocode == nil {
		return 0, 0, errNoCoordinates
	}
	return p.geocode(ctx, loc)
}

// mapOpenMeteoCondition maps WMO weather codes (simplified).
func mapOpenMeteoCondition(code int) climate.Condition {
	switch {
	case code == 0:
		return climate.ConditionClear
	case code >= 1 && code <= 3:
		return climate.ConditionCloudy
	case code == 45 || code == 48:
		return climate.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return climate.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return climate.ConditionSnow
	case code >= 95:
		return climate.ConditionStorm
	default:
		return climate.ConditionUnknown
	}
}
