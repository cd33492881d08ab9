package agronomy

// Fertility score bounds. Extreme pH forces the minimum.
const (
	MinFertilityScore = 3
	MaxFertilityScore = 12
)

// FertilityScore sums tiered N, P and K sub-scores and a pH tier into a
// composite index in [3,12]. A pH below 4.5 or above 9.0 overrides the
// nutrient tiers and returns 3.
func FertilityScore(s SoilSample) int {
	score := 0
	score += tier(s.Nitrogen, 280, 560)
	score += tier(s.Phosphorus, 10, 25)
	score += tier(s.Potassium, 110, 280)

	ph := s.PH
	switch {
	case ph < 4.5 || ph > 9.0:
		return MinFertilityScore
	case ph < 5.5 || ph > 8.5:
		score++
	case (ph >= 5.5 && ph <= 6.5) || (ph >= 7.5 && ph <= 8.5):
		score += 2
	default:
		score += 3
	}
	return score
}

// tier returns 1 below low, 2 up to and including high, 3 above.
func tier(v, low, high float64) int {
	switch {
	case v < low:
		return 1
	case v <= high:
		return 2
	default:
		return 3
	}
}
