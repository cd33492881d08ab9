package advisory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/agripulse/internal/agronomy"
)

// ErrInvalidInput wraps every request validation failure.
var ErrInvalidInput = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Request asks for a full assessment. Soil values are required. Climate may
// be given explicitly, resolved from City/Country, or left to defaults.
// RawYield bypasses the predictor when set.
type Request struct {
	Crop         string `json:"crop" validate:"required,max=64"`
	PreviousCrop string `json:"previousCrop,omitempty" validate:"max=64"`

	Nitrogen   *float64 `json:"nitrogen" validate:"required,gte=0"`
	Phosphorus *float64 `json:"phosphorus" validate:"required,gte=0"`
	Potassium  *float64 `json:"potassium" validate:"required,gte=0"`
	PH         *float64 `json:"ph" validate:"required,gte=0,lte=14"`

	TemperatureC     *float64 `json:"temperatureC,omitempty" validate:"omitempty,gte=-60,lte=60"`
	AnnualRainfallMm *float64 `json:"annualRainfallMm,omitempty" validate:"omitempty,gte=0"`
	City             string   `json:"city,omitempty" validate:"max=128"`
	Country          string   `json:"country,omitempty" validate:"max=64"`

	RawYield *float64 `json:"rawYield,omitempty" validate:"omitempty,gte=0"`
}

func (r Request) soil() agronomy.SoilSample {
	return agronomy.SoilSample{
		Nitrogen:   *r.Nitrogen,
		Phosphorus: *r.Phosphorus,
		Potassium:  *r.Potassium,
		PH:         *r.PH,
	}
}

// FertilityRequest asks for the fertility score and advice only.
type FertilityRequest struct {
	Crop       string   `json:"crop" validate:"required,max=64"`
	Nitrogen   *float64 `json:"nitrogen" validate:"required,gte=0"`
	Phosphorus *float64 `json:"phosphorus" validate:"required,gte=0"`
	Potassium  *float64 `json:"potassium" validate:"required,gte=0"`
	PH         *float64 `json:"ph" validate:"required,gte=0,lte=14"`
}

// Result is a completed assessment together with the inputs that were
// actually used and where the climate and raw yield came from.
type Result struct {
	ID               string            `json:"id,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	Input            agronomy.Input    `json:"input"`
	Features         agronomy.Features `json:"features"`
	ClimateSource    string            `json:"climateSource"`
	PredictionSource string            `json:"predictionSource"`

	agronomy.Assessment
}

// FertilityResult is the soil-only advice.
type FertilityResult struct {
	Crop            string   `json:"crop"`
	FertilityScore  int      `json:"fertilityScore"`
	Recommendations []string `json:"recommendations"`
}

func validateStruct(v interface{}, crop string) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	if strings.TrimSpace(crop) == "" {
		return fmt.Errorf("%w: crop must not be blank", ErrInvalidInput)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
