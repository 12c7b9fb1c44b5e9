// Package postgres persists the progress snapshot as a single jsonb row
// keyed by the fixed snapshot key.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/RoamLine/trip-progress-engine/errors"
	"github.com/RoamLine/trip-progress-engine/store"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// SnapshotStore implements store.SnapshotStore on PostgreSQL.
type SnapshotStore struct {
	db  DB
	key string
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS progress_snapshots (
    snapshot_key TEXT PRIMARY KEY,
    payload      JSONB NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// New creates a snapshot store and ensures its table exists. The schema
// is a single row per snapshot key, so no migration stack is carried.
func New(ctx context.Context, db DB) (*SnapshotStore, error) {
	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &SnapshotStore{db: db, key: store.SnapshotKey}, nil
}

// Load reads and decodes the snapshot row. No row means no trip has been
// started yet.
func (s *SnapshotStore) Load(ctx context.Context) (map[string]*types.TripProgress, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM progress_snapshots WHERE snapshot_key = $1`,
		s.key,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
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

// Save upserts the snapshot row with the encoded mapping.
func (s *SnapshotStore) Save(ctx context.Context, snapshot map[string]*types.TripProgress) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to encode progress snapshot")
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO progress_snapshots (snapshot_key, payload, updated_at)
         VALUES ($1, $2, now())
         ON CONFLICT (snapshot_key)
         DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		s.key, payload,
	)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *SnapshotStore) Close() error {
	s.db.Close()
	return nil
}
