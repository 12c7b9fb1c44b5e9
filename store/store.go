// Package store defines snapshot persistence for the trip progress
// engine. The engine's in-memory state is authoritative; the snapshot is
// a durable copy written after every mutation and read back once at
// startup.
package store

import (
	"context"

	"github.com/RoamLine/trip-progress-engine/types"
)

// SnapshotKey is the fixed storage key the full mapping is persisted
// under. Bump the suffix on incompatible layout changes.
const SnapshotKey = "trip_progress:snapshot:v1"

// SnapshotStore persists the complete tripID → TripProgress mapping as
// one durable record.
type SnapshotStore interface {
	// Load returns the persisted mapping, or an empty map if no snapshot
	// has been written yet.
	Load(ctx context.Context) (map[string]*types.TripProgress, error)
	// Save replaces the durable snapshot with the given mapping.
	Save(ctx context.Context, snapshot map[string]*types.TripProgress) error
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases underlying connections.
	Close() error
}
