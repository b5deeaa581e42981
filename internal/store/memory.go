package store

import (
	"errors"
	"sync"
	"time"

	"github.com/reefwatch/dhw-dashboard/internal/dashboard"
)

// ErrNotFound is returned when no snapshots are available.
var ErrNotFound = errors.New("no estimate snapshots available")

// MemoryStore is a concurrency-safe in-memory history of computed estimate
// snapshots with count- and age-based retention.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []dashboard.Snapshot

	maxHistory int           // max number of retained snapshots (0 = unlimited)
	maxAge     time.Duration // max snapshot age (0 = unlimited)
}

// NewMemoryStore creates a MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a snapshot and enforces the count limit. Age-based retention
// runs separately via Prune so the scheduler controls its cadence.
func (s *MemoryStore) Save(snapshot dashboard.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snapshot)

	if s.maxHistory > 0 && len(s.snapshots) > s.maxHistory {
		over := len(s.snapshots) - s.maxHistory
		s.snapshots = s.snapshots[over:]
	}
}

// Latest returns the most recent snapshot.
func (s *MemoryStore) Latest() (dashboard.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return dashboard.Snapshot{}, ErrNotFound
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

// Range returns all snapshots computed between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]dashboard.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []dashboard.Snapshot
	for _, snap := range s.snapshots {
		if snap.ComputedAt.Before(from) || snap.ComputedAt.After(to) {
			continue
		}
		out = append(out, snap)
	}

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Prune drops snapshots older than the configured max age and reports how
// many were removed. A zero max age makes it a no-op.
func (s *MemoryStore) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.maxAge)
	i := 0
	for ; i < len(s.snapshots); i++ {
		if !s.snapshots[i].ComputedAt.Before(cutoff) {
			break
		}
	}
	if i == 0 {
		return 0
	}
	s.snapshots = s.snapshots[i:]
	return i
}

// Len reports how many snapshots are currently retained.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
