package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/httpclient"
)

var pune = climate.Location{City: "Pune", Country: "IN"}

func setupHTTPMock(t *testing.T) *http.Client {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func fastBackoff() httpclient.BackoffConfig {
	return httpclient.BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func ptr(v float64) *float64 { return &v }

func TestOpenWeatherProvider_Fetch(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.openweathermap\.org/data/2\.5/weather`,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "Pune,IN", q.Get("q"))
			assert.Equal(t, "metric", q.Get("units"))
			assert.Equal(t, "test-key", q.Get("appid"))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"dt": 1767261600,
				"main": {"temp": 28.4, "humidity": 61, "pressure": 1009},
				"wind": {"speed": 3.2},
				"rain": {"3h": 1.5},
				"weather": [{"main": "Rain"}]
			}`), nil
		})

	got, err := NewOpenWeatherProvider(client, "test-key").Fetch(context.Background(), pune)
	require.NoError(t, err)
	assert.Equal(t, "openweathermap", got.ProviderName)
	assert.Equal(t, time.Unix(1767261600, 0).UTC(), got.Timestamp)
	assert.InDelta(t, 28.4, got.TemperatureC, 1e-9)
	assert.InDelta(t, 61.0, got.HumidityPct, 1e-9)
	assert.InDelta(t, 1.5, got.PrecipMm, 1e-9)
	assert.Equal(t, climate.ConditionRain, got.Condition)
}

func TestOpenWeatherProvider_UsesCoordinates(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.openweathermap\.org/data/2\.5/weather`,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Empty(t, q.Get("q"))
			assert.Equal(t, "18.52", q.Get("lat"))
			assert.Equal(t, "73.85", q.Get("lon"))
			return httpmock.NewStringResponse(http.StatusOK, `{"main": {"temp": 30}}`), nil
		})

	loc := climate.Location{City: "Pune", Lat: ptr(18.52), Lon: ptr(73.85)}
	got, err := NewOpenWeatherProvider(client, "k").Fetch(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.TemperatureC)
	assert.Equal(t, climate.ConditionUnknown, got.Condition)
}

func TestOpenWeatherProvider_Errors(t *testing.T) {
	_, err := NewOpenWeatherProvider(http.DefaultClient, "").Fetch(context.Background(), pune)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")

	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.openweathermap\.org`,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	p := NewOpenWeatherProvider(client, "k")
	p.httpCfg.Backoff = fastBackoff()
	_, err = p.Fetch(context.Background(), pune)
	assert.ErrorIs(t, err, httpclient.ErrServerError)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestWeatherAPIProvider_Fetch(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.weatherapi\.com/v1/current\.json`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Pune,IN", req.URL.Query().Get("q"))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"current": {
					"last_updated_epoch": 1767261600,
					"temp_c": 26.0,
					"humidity": 70,
					"wind_kph": 36,
					"pressure_mb": 1011,
					"precip_mm": 0.2,
					"condition": {"text": "Patchy light drizzle"}
				}
			}`), nil
		})

	got, err := NewWeatherAPIProvider(client, "k").Fetch(context.Background(), pune)
	require.NoError(t, err)
	assert.Equal(t, "weatherapi", got.ProviderName)
	assert.InDelta(t, 10.0, got.WindSpeedMS, 1e-9)
	assert.Equal(t, 26.0, got.TemperatureC)
	assert.Equal(t, climate.ConditionRain, got.Condition)
	assert.Equal(t, time.Unix(1767261600, 0).UTC(), got.Timestamp)
}

func TestWeatherAPIProvider_BadJSON(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.weatherapi\.com`,
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	_, err := NewWeatherAPIProvider(client, "k").Fetch(context.Background(), pune)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode weatherapi response")
}

func TestMapWeatherAPICondition(t *testing.T) {
	tests := map[string]climate.Condition{
		"":                               climate.ConditionUnknown,
		"Sunny":                          climate.ConditionClear,
		"Partly cloudy":                  climate.ConditionCloudy,
		"Overcast":                       climate.ConditionCloudy,
		"Moderate rain":                  climate.ConditionRain,
		"Light sleet":                    climate.ConditionSnow,
		"Thundery outbreaks possible":    climate.ConditionStorm,
		"Patchy light rain with thunder": climate.ConditionStorm,
		"Freezing fog":                   climate.ConditionMist,
		"Something odd":                  climate.ConditionUnknown,
	}
	for text, want := range tests {
		assert.Equal(t, want, mapWeatherAPICondition(text), text)
	}
}

func TestOpenMeteoProvider_GeocodesNamedLocations(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.open-meteo\.com/v1/forecast`,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "18.5204", q.Get("latitude"))
			assert.Equal(t, "73.8567", q.Get("longitude"))
			assert.Equal(t, "true", q.Get("current_weather"))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"current_weather": {"temperature": 24.1, "windspeed": 2.5, "weathercode": 61, "time": "2026-01-01T10:00"}
			}`), nil
		})

	var geocoded climate.Location
	geocode := func(_ context.Context, loc climate.Location) (float64, float64, error) {
		geocoded = loc
		return 18.5204, 73.8567, nil
	}

	got, err := NewOpenMeteoProvider(client, geocode).Fetch(context.Background(), pune)
	require.NoError(t, err)
	assert.Equal(t, pune, geocoded)
	assert.Equal(t, "openmeteo", got.ProviderName)
	assert.Equal(t, 24.1, got.TemperatureC)
	assert.Equal(t, climate.ConditionRain, got.Condition)
	assert.Equal(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), got.Timestamp)
}

func TestOpenMeteoProvider_CoordinatesSkipGeocoding(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.open-meteo\.com`,
		httpmock.NewStringResponder(http.StatusOK, `{"current_weather": {"temperature": 19, "weathercode": 0}}`))

	geocode := func(context.Context, climate.Location) (float64, float64, error) {
		t.Fatal("geocoder must not be called")
		return 0, 0, nil
	}
	loc := climate.Location{City: "Pune", Lat: ptr(18.5), Lon: ptr(73.9)}
	got, err := NewOpenMeteoProvider(client, geocode).Fetch(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, climate.ConditionClear, got.Condition)
}

func TestOpenMeteoProvider_GeocodeFailure(t *testing.T) {
	client := setupHTTPMock(t)
	geoErr := errors.New("zero results")
	p := NewOpenMeteoProvider(client, func(context.Context, climate.Location) (float64, float64, error) {
		return 0, 0, geoErr
	})

	_, err := p.Fetch(context.Background(), pune)
	assert.ErrorIs(t, err, geoErr)
	assert.Zero(t, httpmock.GetTotalCallCount())

	_, err = NewOpenMeteoProvider(client, nil).Fetch(context.Background(), pune)
	assert.ErrorIs(t, err, errNoCoordinates)
}

func TestMapOpenMeteoCondition(t *testing.T) {
	assert.Equal(t, climate.ConditionClear, mapOpenMeteoCondition(0))
	assert.Equal(t, climate.ConditionCloudy, mapOpenMeteoCondition(3))
	assert.Equal(t, climate.ConditionMist, mapOpenMeteoCondition(45))
	assert.Equal(t, climate.ConditionRain, mapOpenMeteoCondition(81))
	assert.Equal(t, climate.ConditionSnow, mapOpenMeteoCondition(86))
	assert.Equal(t, climate.ConditionStorm, mapOpenMeteoCondition(99))
	assert.Equal(t, climate.ConditionUnknown, mapOpenMeteoCondition(30))
}
