// Package memory provides an in-process SnapshotStore for tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sync"

	"github.com/RoamLine/trip-progress-engine/types"
)

// SnapshotStore keeps the snapshot in memory. Safe for concurrent use.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot map[string]*types.TripProgress
}

// New returns an empty in-memory snapshot store.
func New() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Load(_ context.Context) (map[string]*types.TripProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*types.TripProgress, len(s.snapshot))
	for id, p := range s.snapshot {
		out[id] = p.Copy()
	}
	return out, nil
}

func (s *SnapshotStore) Save(_ context.Context, snapshot map[string]*types.TripProgress) error {
	cp := make(map[string]*types.TripProgress, len(snapshot))
	for id, p := range snapshot {
		cp[id] = p.Copy()
	}

	s.mu.Lock()
	s.snapshot = cp
	s.mu.Unlock()
	return nil
}

func (s *SnapshotStore) Ping(_ context.Context) error {
	return nil
}

func (s *SnapshotStore) Close() error {
	return nil
}
