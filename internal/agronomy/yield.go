package agronomy

import (
	"math"
	"strconv"
)

// Remark thresholds as fractions of DatasetAverageYield. Both bands below the
// upper threshold currently map to RemarkCropFailure.
const (
	severeFailureRatio = 0.4
	failureRatio       = 0.7
)

// RemarkFor derives the qualitative remark from an adjusted yield. It replaces
// whatever remark an upstream classifier produced.
func RemarkFor(adjustedYield float64) Remark {
	switch {
	case adjustedYield < severeFailureRatio*DatasetAverageYield:
		return RemarkCropFailure
	case adjustedYield < failureRatio*DatasetAverageYield:
		// TODO: split into a separate moderate-loss remark once the advisory pages can render it.
		return RemarkCropFailure
	default:
		return RemarkNormal
	}
}

// adjustYield scales a raw prediction to the crop, applies the three stress
// factors and clamps the result to [0, cap].
func adjustYield(raw float64, p CropProfile, ph, tempC, rainfallMm float64) YieldEstimate {
	cropFactor := p.BaselineYield / DatasetAverageYield
	stress := StressFactors{
		PH:          PHFactor(ph),
		Temperature: TemperatureFactor(p, tempC),
		Rainfall:    RainfallFactor(p, rainfallMm),
	}

	adjusted := raw * cropFactor
	adjusted *= stress.PH
	adjusted *= stress.Temperature
	adjusted *= stress.Rainfall
	adjusted = math.Max(0, math.Min(adjusted, p.CapYield))
	adjusted = round2(adjusted)

	return YieldEstimate{
		RawYield:      round2(raw),
		CropFactor:    cropFactor,
		Stress:        stress,
		AdjustedYield: adjusted,
		Remark:        RemarkFor(adjusted),
	}
}

// round2 rounds the exact decimal value of v to two places, ties to even.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
