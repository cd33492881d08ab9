package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPHFactor(t *testing.T) {
	tests := []struct {
		ph   float64
		want float64
	}{
		{3.0, 0.03},
		{4.49, 0.03},
		{4.5, 0.5},
		{5.49, 0.5},
		{5.5, 0.8},
		{5.99, 0.8},
		{6.0, 1.0},
		{7.0, 1.0},
		{8.0, 1.0},
		{8.01, 0.8},
		{8.5, 0.8},
		{8.51, 0.5},
		{9.0, 0.5},
		{9.01, 0.05},
		{12.0, 0.05},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PHFactor(tt.ph), "pH %.2f", tt.ph)
	}
}

func TestPHFactor_MonotoneTowardNeutral(t *testing.T) {
	prev := PHFactor(0)
	for ph := 0.0; ph <= 7.0; ph += 0.05 {
		f := PHFactor(ph)
		assert.GreaterOrEqual(t, f, prev, "rising from acidic side at pH %.2f", ph)
		prev = f
	}
	prev = PHFactor(14)
	for ph := 14.0; ph >= 7.0; ph -= 0.05 {
		f := PHFactor(ph)
		assert.GreaterOrEqual(t, f, prev, "falling from alkaline side at pH %.2f", ph)
		prev = f
	}
}

func TestTemperatureFactor(t *testing.T) {
	rice := DefaultCatalog().Resolve("rice") // 20..35

	tests := []struct {
		name string
		temp float64
		want float64
	}{
		{"inside", 25, 1.0},
		{"at min", 20, 1.0},
		{"at max", 35, 1.0},
		{"just below min", 19, 0.9},
		{"two below min", 18, 0.9},
		{"far below min", 17.9, 0.7},
		{"just above max", 36, 0.8},
		{"two above max", 37, 0.8},
		{"five above max", 40, 0.6},
		{"far above max", 40.5, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TemperatureFactor(rice, tt.temp))
		})
	}
}

func TestTemperatureFactor_UnknownCropUsesDefaultWindow(t *testing.T) {
	quinoa := DefaultCatalog().Resolve("Quinoa")
	assert.Equal(t, 1.0, TemperatureFactor(quinoa, 25))
	assert.Equal(t, 0.8, TemperatureFactor(quinoa, 31))
	assert.Equal(t, 0.9, TemperatureFactor(quinoa, 19))

	// A profile with no window at all behaves the same way.
	assert.Equal(t, 0.8, TemperatureFactor(CropProfile{}, 31))
}

func TestRainfallFactor(t *testing.T) {
	rice := DefaultCatalog().Resolve("Rice") // 1000..2000

	assert.Equal(t, 1.0, RainfallFactor(rice, 1000))
	assert.Equal(t, 1.0, RainfallFactor(rice, 2000))
	assert.Equal(t, 1.0, RainfallFactor(rice, 1500))
	assert.Equal(t, 800.0/1000.0, RainfallFactor(rice, 800))
	assert.Equal(t, 0.0, RainfallFactor(rice, 0))
	assert.Equal(t, 2000.0/2500.0, RainfallFactor(rice, 2500))
}

func TestRainfallFactor_UnknownCropNoPenalty(t *testing.T) {
	c := DefaultCatalog()
	for _, crop := range []string{"Quinoa", "Tomato", "banana"} {
		p := c.Resolve(crop)
		assert.Equal(t, 1.0, RainfallFactor(p, 10), crop)
		assert.Equal(t, 1.0, RainfallFactor(p, 5000), crop)
	}
}

func TestEngineStressFactors_CaseInsensitive(t *testing.T) {
	e := NewEngine(nil)
	want := e.StressFactors("wheat", 5.0, 33, 200)
	assert.Equal(t, want, e.StressFactors("  WHEAT ", 5.0, 33, 200))
	assert.Equal(t, StressFactors{PH: 0.5, Temperature: 0.6, Rainfall: 200.0 / 300.0}, want)
}
