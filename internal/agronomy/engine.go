// Package agronomy implements the yield-adjustment and recommendation rules:
// fertility scoring, pH/temperature/rainfall stress, crop scaling and capping,
// and fertilizer advice. Everything here is pure; the only shared state is the
// read-only crop catalog.
package agronomy

// Engine evaluates soil, climate and a raw yield prediction against a crop catalog.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an Engine. A nil catalog selects DefaultCatalog.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the engine's crop catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Profile resolves a crop name against the catalog with defaults applied.
func (e *Engine) Profile(crop string) CropProfile {
	return e.catalog.Resolve(crop)
}

// StressFactors computes the three independent stress factors for a crop.
func (e *Engine) StressFactors(crop string, ph, tempC, rainfallMm float64) StressFactors {
	p := e.catalog.Resolve(crop)
	return StressFactors{
		PH:          PHFactor(ph),
		Temperature: TemperatureFactor(p, tempC),
		Rainfall:    RainfallFactor(p, rainfallMm),
	}
}

// AdjustYield turns an externally predicted yield into a crop-specific,
// stress-adjusted and capped estimate with a derived remark.
func (e *Engine) AdjustYield(raw float64, crop string, ph, tempC, rainfallMm float64) YieldEstimate {
	return adjustYield(raw, e.catalog.Resolve(crop), ph, tempC, rainfallMm)
}

// Recommend composes the ordered advisory lines for a soil sample.
func (e *Engine) Recommend(crop string, soil SoilSample, fertilityScore int) []string {
	return composeRecommendations(e.catalog.Resolve(crop), soil, fertilityScore)
}

// Evaluate runs the whole pipeline for one input. The yield path and the
// recommendation path share only the fertility score and the raw inputs.
func (e *Engine) Evaluate(rawYield float64, in Input) Assessment {
	p := e.catalog.Resolve(in.Crop)
	score := FertilityScore(in.Soil)

	return Assessment{
		Crop:            p.Name,
		FertilityScore:  score,
		Yield:           adjustYield(rawYield, p, in.Soil.PH, in.Climate.TemperatureC, in.Climate.AnnualRainfallMm),
		Recommendations: composeRecommendations(p, in.Soil, score),
	}
}
