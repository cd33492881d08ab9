package climate

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is a place whose climate we track. City is required; Lat/Lon are
// optional and let coordinate-based providers skip geocoding.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToLower(strings.TrimSpace(l.Country))
}

// Query renders the location as "city,country" for name-based provider lookups.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Snapshot is the normalized, aggregated weather view at a point in time.
type Snapshot struct {
	Location    Location  `json:"location"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
	WindSpeed   float64   `json:"windSpeed"`
	Pressure    float64   `json:"pressureHpa"`
	PrecipMM    float64   `json:"precipMm"`
	Condition   Condition `json:"condition"`

	Providers []ProviderContribution `json:"providers,omitempty"`
}

// ProviderContribution names one provider that fed a snapshot.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}

// Source says where the temperature of a Reading came from.
type Source string

const (
	SourceSnapshot Source = "snapshot"
	SourceLive     Source = "live"
	SourceDefault  Source = "default"
)

// Reading is the growing-season climate resolved for a location.
type Reading struct {
	Location         Location  `json:"location"`
	TemperatureC     float64   `json:"temperatureC"`
	AnnualRainfallMm float64   `json:"annualRainfallMm"`
	Source           Source    `json:"source"`
	ObservedAt       time.Time `json:"observedAt,omitempty"`
}
