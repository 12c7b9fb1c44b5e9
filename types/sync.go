package types

import (
	"time"

	"github.com/google/uuid"
)

// SyncKind identifies which remote mirror call an intent maps to.
type SyncKind string

const (
	// SyncKindAdvance mirrors a stop completion/skip to the remote trip record.
	SyncKindAdvance SyncKind = "ADVANCE"
	// SyncKindSetDay mirrors a day rollover.
	SyncKindSetDay SyncKind = "SET_DAY"
	// SyncKindSetStatus mirrors trip-level status changes (e.g. completed).
	SyncKindSetStatus SyncKind = "SET_STATUS"
)

// SyncIntent is one unit of best-effort mirroring work. The remote trip
// record is a mirror, never a source of truth: a dropped intent must not
// affect local progress.
type SyncIntent struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	Kind      SyncKind  `json:"kind"`
	StopID    string    `json:"stopId,omitempty"`
	Day       int       `json:"day,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Attempts  int       `json:"-"`
}

// NewSyncIntent creates an intent with a fresh idempotency ID. The ID is
// sent with every delivery attempt so the remote API can deduplicate
// retries.
func NewSyncIntent(tripID string, kind SyncKind) SyncIntent {
	return SyncIntent{
		ID:        uuid.New().String(),
		TripID:    tripID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// SyncRecorder receives intents emitted by the engine. Implementations
// must not block: the engine calls Record inside its mutation path.
type SyncRecorder interface {
	Record(intent SyncIntent)
}

// NoopSyncRecorder discards every intent. Used when remote mirroring is
// disabled.
type NoopSyncRecorder struct{}

func (NoopSyncRecorder) Record(SyncIntent) {}
