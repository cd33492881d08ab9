package agronomy

import (
	"fmt"
	"math"
)

// nutrientDeficits returns the kg/ha of N, P and K still needed to reach the
// target, rounded half to even and floored at zero.
func nutrientDeficits(target NPK, soil SoilSample) (n, p, k int) {
	deficit := func(want, have float64) int {
		return int(math.Max(0, math.RoundToEven(want-have)))
	}
	return deficit(target.N, soil.Nitrogen), deficit(target.P, soil.Phosphorus), deficit(target.K, soil.Potassium)
}

// fertilityAdvice returns the tier guidance for a fertility score.
func fertilityAdvice(score int) []string {
	switch {
	case score <= 6:
		return []string{
			"Apply organic compost",
			"Use green manure (e.g., Dhaincha)",
			"Add biofertilizers with FYM",
		}
	case score <= 9:
		return []string{
			"Apply balanced NPK (20:20:0)",
			"Incorporate green manure before sowing",
		}
	default:
		return []string{
			"Maintain current fertilization routine",
			"Use micronutrients only if deficiencies appear",
		}
	}
}

// PHRecommendation returns corrective advice for a soil pH value.
func PHRecommendation(ph float64) []string {
	switch {
	case ph < 5.5:
		return []string{
			fmt.Sprintf("Soil is too acidic (pH=%.2f). Apply lime (CaCO₃) to raise pH.", ph),
			"Incorporate organic compost to buffer acidity.",
			"Avoid ammonium-based fertilizers.",
		}
	case ph > 8.5:
		return []string{
			fmt.Sprintf("Soil is too alkaline (pH=%.2f). Use sulfur or gypsum to lower pH.", ph),
			"Avoid excessive irrigation with alkaline water.",
			"Grow pH-tolerant crops (e.g., barley, cotton).",
		}
	case ph >= 6.5 && ph <= 7.5:
		return []string{fmt.Sprintf("Soil pH is optimal (%.2f). No pH correction needed.", ph)}
	default:
		return []string{fmt.Sprintf("Soil pH (%.2f) is moderately acidic/alkaline. Monitor crop performance and adjust as needed.", ph)}
	}
}

// composeRecommendations emits the three deficit lines (zero deficits
// included), then the fertility tier advice, then the pH advice.
func composeRecommendations(p CropProfile, soil SoilSample, score int) []string {
	target := DefaultNPK
	if p.NPK != nil {
		target = *p.NPK
	}
	addN, addP, addK := nutrientDeficits(target, soil)

	recs := []string{
		fmt.Sprintf("Apply additional Nitrogen (N): %d kg/ha", addN),
		fmt.Sprintf("Apply additional Phosphorus (P₂O₅): %d kg/ha", addP),
		fmt.Sprintf("Apply additional Potassium (K₂O): %d kg/ha", addK),
	}
	recs = append(recs, fertilityAdvice(score)...)
	recs = append(recs, PHRecommendation(soil.PH)...)
	return recs
}
