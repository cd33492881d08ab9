package agronomy

// PHFactor returns the yield dampener for soil pH. The guards overlap and are
// evaluated most extreme first; their order decides precedence.
func PHFactor(ph float64) float64 {
	switch {
	case ph < 4.5:
		return 0.03
	case ph > 9:
		return 0.05
	case ph < 5.5 || ph > 8.5:
		return 0.5
	case ph < 6.0 || ph > 8.0:
		return 0.8
	default:
		return 1.0
	}
}

// TemperatureFactor returns the stepped temperature dampener for a resolved
// profile. A profile without a temperature window uses DefaultTemperatureRange.
func TemperatureFactor(p CropProfile, tempC float64) float64 {
	r := DefaultTemperatureRange
	if p.Temperature != nil {
		r = *p.Temperature
	}

	switch {
	case tempC < r.Min:
		if tempC >= r.Min-2 {
			return 0.9
		}
		return 0.7
	case tempC > r.Max:
		delta := tempC - r.Max
		switch {
		case delta <= 2:
			return 0.8
		case delta <= 5:
			return 0.6
		default:
			return 0.4
		}
	default:
		return 1.0
	}
}

// RainfallFactor returns the continuous rainfall dampener: the proportional
// shortfall below the window, the inverse excess above it, 1.0 inside it.
// Crops without a rainfall window are never penalized.
func RainfallFactor(p CropProfile, rainfallMm float64) float64 {
	if p.Rainfall == nil {
		return 1.0
	}
	r := *p.Rainfall
	switch {
	case rainfallMm < r.Min:
		return rainfallMm / r.Min
	case rainfallMm > r.Max:
		return r.Max / rainfallMm
	default:
		return 1.0
	}
}
