// Package redis persists the progress snapshot as a single JSON blob in
// Redis under the fixed snapshot key.
package redis

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/RoamLine/trip-progress-engine/errors"
	"github.com/RoamLine/trip-progress-engine/store"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore implements store.SnapshotStore on a Redis client.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

// New creates a snapshot store on the given client using the standard
// snapshot key.
func New(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		key:    store.SnapshotKey,
	}
}

// Load reads and decodes the snapshot. A missing key is not an error: it
// means no trip has been started yet.
func (s *SnapshotStore) Load(ctx context.Context) (map[string]*types.TripProgress, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]*types.TripProgress{}, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	var snapshot map[string]*types.TripProgress
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, apperrors.Wrap(err, apperrors.DatabaseError, "corrupt progress snapshot")
	}
	if snapshot == nil {
		snapshot = map[string]*types.TripProgress{}
	}
	return snapshot, nil
}

// Save encodes the full mapping and overwrites the snapshot key. The
// snapshot has no TTL: progress survives until explicitly cleared.
func (s *SnapshotStore) Save(ctx context.Context, snapshot map[string]*types.TripProgress) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to encode progress snapshot")
	}

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
