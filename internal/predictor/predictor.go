// Package predictor supplies the raw yield prediction the agronomy engine
// adjusts. The regressor itself lives outside this service; HTTPPredictor
// calls it, Cached memoizes it and Static stands in when none is configured.
package predictor

import (
	"context"
	"errors"

	"github.com/i474232898/agripulse/internal/agronomy"
)

// ErrUnavailable wraps every failure to obtain a prediction.
var ErrUnavailable = errors.New("yield predictor unavailable")

// Predictor returns a raw yield (kg/ha) for a feature vector.
type Predictor interface {
	Predict(ctx context.Context, f agronomy.Features) (float64, error)
}

// Static always predicts the same yield.
type Static struct {
	Yield float64
}

// NewStatic returns a Static predictor. A non-positive yield selects the
// dataset average.
func NewStatic(yield float64) Static {
	if yield <= 0 {
		yield = agronomy.DatasetAverageYield
	}
	return Static{Yield: yield}
}

// Predict returns the fixed yield unless ctx is already done.
func (s Static) Predict(ctx context.Context, _ agronomy.Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.Yield, nil
}
