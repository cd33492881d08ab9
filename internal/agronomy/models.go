package agronomy

// SoilSample is a single soil test. Nutrients are in kg/ha, pH on the 0-14 scale.
// Callers validate ranges before handing a sample to the engine.
type SoilSample struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
	PH         float64 `json:"ph"`
}

// ClimateReading is the growing-season climate used by the stress model.
type ClimateReading struct {
	TemperatureC     float64 `json:"temperatureC"`
	AnnualRainfallMm float64 `json:"annualRainfallMm"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// NPK is a nitrogen / phosphorus / potassium triple in kg/ha.
type NPK struct {
	N float64 `json:"n" yaml:"n"`
	P float64 `json:"p" yaml:"p"`
	K float64 `json:"k" yaml:"k"`
}

// CropProfile holds the agronomic parameters of one crop.
//
// A catalog entry may leave fields unset (zero or nil). Catalog.Resolve fills
// every field that has a documented default; Rainfall stays nil for crops
// without a rainfall window, which disables the rainfall penalty.
type CropProfile struct {
	Name          string  `json:"name" yaml:"name"`
	BaselineYield float64 `json:"baselineYieldKgHa,omitempty" yaml:"baseline_yield,omitempty"`
	CapYield      float64 `json:"capYieldKgHa,omitempty" yaml:"cap_yield,omitempty"`
	Temperature   *Range  `json:"optimalTempRange,omitempty" yaml:"temperature,omitempty"`
	PH            *Range  `json:"optimalPhRange,omitempty" yaml:"ph,omitempty"`
	Rainfall      *Range  `json:"optimalRainfallRange,omitempty" yaml:"rainfall,omitempty"`
	NPK           *NPK    `json:"recommendedNpk,omitempty" yaml:"npk,omitempty"`

	// Known is false when the profile was synthesized for a crop missing from the catalog.
	Known bool `json:"known" yaml:"-"`
}

// StressFactors are the multiplicative dampeners applied to a yield estimate.
type StressFactors struct {
	PH          float64 `json:"phFactor"`
	Temperature float64 `json:"temperatureFactor"`
	Rainfall    float64 `json:"rainfallFactor"`
}

// Remark is the qualitative outcome attached to an adjusted yield.
type Remark string

const (
	RemarkNormal      Remark = "normal"
	RemarkCropFailure Remark = "crop_failure"
)

// YieldEstimate is the output of the yield adjustment stage.
type YieldEstimate struct {
	RawYield      float64       `json:"rawYieldKgHa"`
	CropFactor    float64       `json:"cropFactor"`
	Stress        StressFactors `json:"stress"`
	AdjustedYield float64       `json:"adjustedYieldKgHa"`
	Remark        Remark        `json:"remark"`
}

// Input bundles everything the engine needs for one field.
type Input struct {
	Crop         string         `json:"crop"`
	PreviousCrop string         `json:"previousCrop,omitempty"`
	Soil         SoilSample     `json:"soil"`
	Climate      ClimateReading `json:"climate"`
}

// Assessment is the full engine result for one Input.
type Assessment struct {
	Crop            string        `json:"crop"`
	FertilityScore  int           `json:"fertilityScore"`
	Yield           YieldEstimate `json:"yield"`
	Recommendations []string      `json:"recommendations"`
}
