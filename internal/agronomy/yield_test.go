package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustYield_CropScaling(t *testing.T) {
	e := NewEngine(nil)

	got := e.AdjustYield(2000, "Rice", 7.0, 25, 1500)
	assert.InDelta(t, 4000.0/1645.0, got.CropFactor, 1e-12)
	assert.Equal(t, StressFactors{PH: 1, Temperature: 1, Rainfall: 1}, got.Stress)
	assert.InDelta(t, 4863.22, got.AdjustedYield, 0.001)
	assert.Equal(t, RemarkNormal, got.Remark)
	assert.Equal(t, 2000.0, got.RawYield)
}

func TestAdjustYield_ExtremeAcidity(t *testing.T) {
	got := NewEngine(nil).AdjustYield(2000, "Rice", 4.0, 25, 1500)
	assert.Equal(t, 0.03, got.Stress.PH)
	assert.InDelta(t, 145.9, got.AdjustedYield, 0.001)
	assert.Equal(t, RemarkCropFailure, got.Remark)
}

func TestAdjustYield_UnknownCropUsesDatasetAverage(t *testing.T) {
	got := NewEngine(nil).AdjustYield(1000, "Quinoa", 7.0, 25, 5000)
	assert.Equal(t, 1.0, got.CropFactor)
	assert.Equal(t, 1.0, got.Stress.Rainfall)
	assert.Equal(t, 1000.0, got.AdjustedYield)
	assert.Equal(t, RemarkCropFailure, got.Remark)
}

func TestAdjustYield_CappedAtCropMaximum(t *testing.T) {
	got := NewEngine(nil).AdjustYield(5000, "Soybean", 7.0, 25, 800)
	assert.Equal(t, 5000.0, got.AdjustedYield)
	assert.Equal(t, RemarkNormal, got.Remark)

	// Unknown crops clamp at the default cap.
	got = NewEngine(nil).AdjustYield(50000, "Quinoa", 7.0, 25, 800)
	assert.Equal(t, DefaultCapYield, got.AdjustedYield)
}

func TestAdjustYield_NeverNegative(t *testing.T) {
	e := NewEngine(nil)
	for _, raw := range []float64{-500, 0} {
		got := e.AdjustYield(raw, "Wheat", 7.0, 20, 500)
		assert.Equal(t, 0.0, got.AdjustedYield)
		assert.Equal(t, RemarkCropFailure, got.Remark)
	}
}

func TestAdjustYield_StressOnlyReduces(t *testing.T) {
	e := NewEngine(nil)
	ideal := e.AdjustYield(1500, "Maize", 6.8, 25, 650).AdjustedYield
	for _, c := range []struct{ ph, temp, rain float64 }{
		{5.0, 25, 650},
		{6.8, 10, 650},
		{6.8, 40, 650},
		{6.8, 25, 100},
		{6.8, 25, 3000},
		{9.5, 45, 50},
	} {
		got := e.AdjustYield(1500, "Maize", c.ph, c.temp, c.rain).AdjustedYield
		assert.LessOrEqual(t, got, ideal, "%+v", c)
	}
}

func TestRemarkFor(t *testing.T) {
	assert.Equal(t, RemarkCropFailure, RemarkFor(0))
	assert.Equal(t, RemarkCropFailure, RemarkFor(657))
	assert.Equal(t, RemarkCropFailure, RemarkFor(900))
	assert.Equal(t, RemarkCropFailure, RemarkFor(1151))
	assert.Equal(t, RemarkNormal, RemarkFor(1152))
	assert.Equal(t, RemarkNormal, RemarkFor(DatasetAverageYield))
}

func TestRound2_HalfToEven(t *testing.T) {
	assert.Equal(t, 0.12, round2(0.125))
	assert.Equal(t, 1.5, round2(1.5))
	assert.Equal(t, 4863.22, round2(4863.2218))

	// 0.015 is stored just below the tie and 0.025 just above it.
	assert.Equal(t, 0.01, round2(0.015))
	assert.Equal(t, 0.03, round2(0.025))
	assert.Equal(t, 0.07, round2(0.065))
	assert.Equal(t, 0.07, round2(0.075))
}
