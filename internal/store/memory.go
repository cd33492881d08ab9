package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/agripulse/internal/climate"
)

// ErrNotFound is returned when a store holds no data for the requested key.
var ErrNotFound = errors.New("not found")

// snapshotHistory holds a time-ordered list of snapshots for a location.
type snapshotHistory struct {
	snapshots []climate.Snapshot
}

// MemoryStore is a concurrency-safe in-memory climate snapshot store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]*snapshotHistory

	maxHistory int           // max snapshots per location
	maxAge     time.Duration // max snapshot age
}

// NewMemoryStore creates a MemoryStore. Non-positive limits mean unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveSnapshot appends a snapshot for a location and enforces retention.
func (s *MemoryStore) SaveSnapshot(loc climate.Location, snapshot climate.Snapshot) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &snapshotHistory{}
		s.data[key] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// The newest snapshot is always kept, even when it is already past maxAge.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots)-1; i++ {
			if !history.snapshots[i].Timestamp.Before(cutoff) {
				break
			}
		}
		history.snapshots = history.snapshots[i:]
	}
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(loc climate.Location) (climate.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.snapshots) == 0 {
		return climate.Snapshot{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// GetRange returns all snapshots for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(loc climate.Location, from, to time.Time) ([]climate.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []climate.Snapshot
	for _, snap := range history.snapshots {
		if !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
