package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/agripulse/internal/agronomy"
	"github.com/i474232898/agripulse/internal/httpclient"
)

// HTTPPredictor posts the feature vector as JSON to a model server and
// expects {"yield": <kg/ha>} back.
type HTTPPredictor struct {
	url     string
	httpCfg httpclient.Config
	circuit *gobreaker.CircuitBreaker
}

// NewHTTPPredictor creates a predictor posting to url with retries and a circuit breaker.
func NewHTTPPredictor(client *http.Client, url string) *HTTPPredictor {
	return &HTTPPredictor{
		url:     url,
		httpCfg: httpclient.NewConfig(client),
		circuit: httpclient.NewBreaker("predictor"),
	}
}

// Predict posts f and returns the model's yield. Every failure wraps ErrUnavailable.
func (p *HTTPPredictor) Predict(ctx context.Context, f agronomy.Features) (float64, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return 0, fmt.Errorf("%w: encode features: %v", ErrUnavailable, err)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := httpclient.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Yield *float64 `json:"yield"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if payload.Yield == nil {
		return 0, fmt.Errorf("%w: response has no yield", ErrUnavailable)
	}
	y := *payload.Yield
	if math.IsNaN(y) || math.IsInf(y, 0) || y < 0 {
		return 0, fmt.Errorf("%w: invalid yield %v", ErrUnavailable, y)
	}
	return y, nil
}
