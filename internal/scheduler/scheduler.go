package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/metrics"
)

const (
	defaultInterval = 15 * time.Minute
	fetchTimeout    = 30 * time.Second
)

// Refresher fetches and stores the current climate for one location.
type Refresher interface {
	FetchAndStore(ctx context.Context, loc climate.Location) error
}

// Scheduler periodically refreshes climate snapshots for tracked locations
// so assessments can resolve temperature without a live call.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	locations []climate.Location
	interval  time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates a Scheduler. m may be nil.
func New(locations []climate.Location, interval time.Duration, refresher Refresher, logger *zap.Logger, m *metrics.Metrics) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		locations: locations,
		interval:  interval,
		logger:    logger.Named("scheduler"),
		metrics:   m,
	}
}

// Start schedules the refresh job, runs it once immediately and returns.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("climate refresh scheduled",
		zap.Duration("interval", s.interval),
		zap.Int("locations", len(s.locations)))
	return nil
}

// RunOnce refreshes every tracked location concurrently and returns how many succeeded.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.logger.Debug("running climate refresh job")

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc climate.Location) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			err := s.refresher.FetchAndStore(ctx, loc)
			s.metrics.RecordClimateRefresh(err == nil)
			if err != nil {
				s.logger.Warn("climate refresh failed", zap.String("location", loc.Key()), zap.Error(err))
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(loc)
	}
	wg.Wait()

	s.logger.Debug("climate refresh job completed", zap.Int("succeeded", ok), zap.Int("total", len(s.locations)))
	return ok
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
