package climate_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/store"
)

type fakeProvider struct {
	name  string
	temp  float64
	cond  climate.Condition
	err   error
	calls int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(_ context.Context, _ climate.Location) (climate.ProviderReading, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return climate.ProviderReading{}, f.err
	}
	return climate.ProviderReading{
		ProviderName: f.name,
		Timestamp:    time.Now().UTC(),
		TemperatureC: f.temp,
		Condition:    f.cond,
	}, nil
}

var pune = climate.Location{City: "Pune", Country: "IN"}

func newService(maxAge time.Duration, providers ...climate.Provider) (*climate.Service, *store.MemoryStore) {
	mem := store.NewMemoryStore(10, 24*time.Hour)
	return climate.NewService(mem, providers, maxAge, zap.NewNop()), mem
}

func TestFetchAndStore_AggregatesSuccessfulProviders(t *testing.T) {
	svc, _ := newService(time.Hour,
		&fakeProvider{name: "a", temp: 20, cond: climate.ConditionRain},
		&fakeProvider{name: "b", temp: 30, cond: climate.ConditionRain},
		&fakeProvider{name: "c", err: errors.New("boom")},
	)

	require.NoError(t, svc.FetchAndStore(context.Background(), pune))

	snap, err := svc.GetLatest(pune)
	require.NoError(t, err)
	assert.Equal(t, 25.0, snap.Temperature)
	assert.Equal(t, climate.ConditionRain, snap.Condition)
	assert.Len(t, snap.Providers, 2)
}

func TestFetchAndStore_AllFailKeepsLastSnapshot(t *testing.T) {
	bad := &fakeProvider{name: "a", err: errors.New("down")}
	svc, mem := newService(time.Hour, bad)
	mem.SaveSnapshot(pune, climate.Snapshot{Location: pune, Timestamp: time.Now().UTC(), Temperature: 18})

	err := svc.FetchAndStore(context.Background(), pune)
	assert.ErrorIs(t, err, climate.ErrNoReadings)

	snap, err := svc.GetLatest(pune)
	require.NoError(t, err)
	assert.Equal(t, 18.0, snap.Temperature)
}

func TestFetchAndStore_NoProviders(t *testing.T) {
	svc, _ := newService(time.Hour)
	assert.ErrorIs(t, svc.FetchAndStore(context.Background(), pune), climate.ErrNoProviders)
}

func TestResolve_UsesFreshSnapshot(t *testing.T) {
	p := &fakeProvider{name: "a", temp: 40}
	svc, mem := newService(time.Hour, p)
	mem.SaveSnapshot(pune, climate.Snapshot{Location: pune, Timestamp: time.Now().UTC(), Temperature: 27.5})

	got := svc.Resolve(context.Background(), pune)
	assert.Equal(t, 27.5, got.TemperatureC)
	assert.Equal(t, 901.0, got.AnnualRainfallMm)
	assert.Equal(t, climate.SourceSnapshot, got.Source)
	assert.Zero(t, atomic.LoadInt32(&p.calls))
}

func TestResolve_StaleSnapshotFetchesLive(t *testing.T) {
	p := &fakeProvider{name: "a", temp: 31}
	svc, mem := newService(time.Hour, p)
	mem.SaveSnapshot(pune, climate.Snapshot{Location: pune, Timestamp: time.Now().Add(-2 * time.Hour), Temperature: 10})

	got := svc.Resolve(context.Background(), pune)
	assert.Equal(t, 31.0, got.TemperatureC)
	assert.Equal(t, climate.SourceLive, got.Source)
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.calls))

	// The live reading is stored for the next caller.
	got = svc.Resolve(context.Background(), pune)
	assert.Equal(t, climate.SourceSnapshot, got.Source)
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.calls))
}

func TestResolve_UnknownRegionUsesDefaultRainfall(t *testing.T) {
	svc, _ := newService(time.Hour, &fakeProvider{name: "a", temp: 12})
	got := svc.Resolve(context.Background(), climate.Location{City: "Reykjavik", Country: "IS"})
	assert.Equal(t, 12.0, got.TemperatureC)
	assert.Equal(t, climate.DefaultAnnualRainfallMm, got.AnnualRainfallMm)
	assert.Equal(t, climate.SourceLive, got.Source)
}

func TestResolve_FailureFallsBackToDefaults(t *testing.T) {
	svc, _ := newService(time.Hour, &fakeProvider{name: "a", err: errors.New("timeout")})

	// Kerala has a known normal, but a failed temperature lookup discards it too.
	got := svc.Resolve(context.Background(), climate.Location{City: "Kerala"})
	assert.Equal(t, climate.DefaultTemperatureC, got.TemperatureC)
	assert.Equal(t, climate.DefaultAnnualRainfallMm, got.AnnualRainfallMm)
	assert.Equal(t, climate.SourceDefault, got.Source)
}

func TestResolve_EmptyLocation(t *testing.T) {
	p := &fakeProvider{name: "a", temp: 40}
	svc, _ := newService(time.Hour, p)

	got := svc.Resolve(context.Background(), climate.Location{})
	assert.Equal(t, climate.SourceDefault, got.Source)
	assert.Equal(t, 25.0, got.TemperatureC)
	assert.Equal(t, 800.0, got.AnnualRainfallMm)
	assert.Zero(t, atomic.LoadInt32(&p.calls))
}
