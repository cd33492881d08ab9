// Package climate resolves the temperature and annual rainfall used by the
// yield model. It aggregates current conditions from several weather
// providers, keeps a short snapshot history and falls back to fixed defaults
// when nothing can be fetched.
package climate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoProviders = errors.New("no weather providers configured")
	ErrNoReadings  = errors.New("no successful provider readings")
)

// Service orchestrates fetching from multiple providers and persisting snapshots.
type Service struct {
	store     Store
	providers []Provider
	maxAge    time.Duration
	logger    *zap.Logger
}

// NewService creates a Service. Snapshots older than maxAge are refreshed
// live by Resolve; maxAge <= 0 always fetches.
func NewService(store Store, providers []Provider, maxAge time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		providers: providers,
		maxAge:    maxAge,
		logger:    logger.Named("climate"),
	}
}

// FetchAndStore fetches from all providers concurrently, aggregates the
// successful readings and stores a snapshot. When every provider fails the
// last good snapshot is kept and ErrNoReadings is returned.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	_, err := s.fetchAndStore(ctx, loc)
	return err
}

func (s *Service) fetchAndStore(ctx context.Context, loc Location) (Snapshot, error) {
	if len(s.providers) == 0 {
		return Snapshot{}, ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
	)

	for _, p := range s.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				s.logger.Warn("provider fetch failed",
					zap.String("provider", p.Name()),
					zap.String("location", loc.Key()),
					zap.Error(err))
				return
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	if len(readings) == 0 {
		return Snapshot{}, ErrNoReadings
	}

	snapshot := AggregateReadings(loc, readings)
	s.store.SaveSnapshot(loc, snapshot)
	s.logger.Debug("snapshot stored",
		zap.String("location", loc.Key()),
		zap.Int("providers", len(readings)),
		zap.Float64("temperatureC", snapshot.Temperature))
	return snapshot, nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Snapshot, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(loc, from, to)
}

// Resolve returns the climate for a location. Temperature comes from a fresh
// snapshot or a live fetch; rainfall from the regional normals table. If the
// temperature cannot be obtained both values fall back to
// DefaultTemperatureC and DefaultAnnualRainfallMm. Resolve never fails.
func (s *Service) Resolve(ctx context.Context, loc Location) Reading {
	reading := Reading{
		Location:         loc,
		TemperatureC:     DefaultTemperatureC,
		AnnualRainfallMm: DefaultAnnualRainfallMm,
		Source:           SourceDefault,
	}
	if strings.TrimSpace(loc.City) == "" {
		return reading
	}

	snap, source, err := s.current(ctx, loc)
	if err != nil {
		s.logger.Warn("climate lookup failed, using defaults",
			zap.String("location", loc.Key()),
			zap.Error(err))
		return reading
	}

	reading.TemperatureC = snap.Temperature
	reading.AnnualRainfallMm, _ = AnnualRainfall(loc.City)
	reading.Source = source
	reading.ObservedAt = snap.Timestamp
	return reading
}

func (s *Service) current(ctx context.Context, loc Location) (Snapshot, Source, error) {
	if s.maxAge > 0 {
		if latest, err := s.store.GetLatest(loc); err == nil && time.Since(latest.Timestamp) <= s.maxAge {
			return latest, SourceSnapshot, nil
		}
	}
	snap, err := s.fetchAndStore(ctx, loc)
	if err != nil {
		return Snapshot{}, "", err
	}
	return snap, SourceLive, nil
}
