package predictor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/i474232898/agripulse/internal/agronomy"
)

// Cached memoizes successful predictions per feature vector. Errors are not cached.
type Cached struct {
	next  Predictor
	cache *cache.Cache
}

// NewCached wraps next with a cache whose entries expire after ttl.
func NewCached(next Predictor, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Predict returns a cached yield for f or asks next and caches a successful answer.
func (c *Cached) Predict(ctx context.Context, f agronomy.Features) (float64, error) {
	key, err := json.Marshal(f)
	if err != nil {
		return c.next.Predict(ctx, f)
	}
	if v, ok := c.cache.Get(string(key)); ok {
		return v.(float64), nil
	}

	y, err := c.next.Predict(ctx, f)
	if err != nil {
		return 0, err
	}
	c.cache.Set(string(key), y, cache.DefaultExpiration)
	return y, nil
}

// Len returns the number of cached predictions, expired ones included until cleanup.
func (c *Cached) Len() int {
	return c.cache.ItemCount()
}
