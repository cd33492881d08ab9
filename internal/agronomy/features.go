package agronomy

import "math"

// minRatioDenominator replaces a zero denominator in the derived ratios.
const minRatioDenominator = 1e-6

// Features is the vector handed to the yield regressor. Crop names are
// title-cased to match the regressor's one-hot columns.
type Features struct {
	Nitrogen       float64 `json:"N"`
	Phosphorus     float64 `json:"P"`
	Potassium      float64 `json:"K"`
	PH             float64 `json:"pH"`
	TemperatureC   float64 `json:"Temperature"`
	RainfallMm     float64 `json:"Rainfall"`
	Crop           string  `json:"Crop"`
	PreviousCrop   string  `json:"PreviousCrop"`
	FertilityScore int     `json:"FertilityScore"`
	NPKSum         float64 `json:"NPK_sum"`
	NPerTemp       float64 `json:"N_per_Temp"`
	RainfallPerK   float64 `json:"Rainfall_per_K"`
}

// DeriveFeatures computes the regressor features, including the fertility
// score and the derived ratios.
func DeriveFeatures(in Input) Features {
	s := in.Soil
	return Features{
		Nitrogen:       s.Nitrogen,
		Phosphorus:     s.Phosphorus,
		Potassium:      s.Potassium,
		PH:             s.PH,
		TemperatureC:   in.Climate.TemperatureC,
		RainfallMm:     in.Climate.AnnualRainfallMm,
		Crop:           DisplayCropName(in.Crop),
		PreviousCrop:   DisplayCropName(in.PreviousCrop),
		FertilityScore: FertilityScore(s),
		NPKSum:         s.Nitrogen + s.Phosphorus + s.Potassium,
		NPerTemp:       ratio(s.Nitrogen, in.Climate.TemperatureC+1),
		RainfallPerK:   ratio(in.Climate.AnnualRainfallMm, s.Potassium+1),
	}
}

// ratio divides num by den and always returns a finite value, so the vector
// stays JSON-encodable at -1 °C or with a potassium value of -1.
func ratio(num, den float64) float64 {
	if math.Abs(den) < minRatioDenominator {
		den = math.Copysign(minRatioDenominator, den)
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
