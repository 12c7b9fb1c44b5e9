package handlers

import (
	"context"

	"github.com/RoamLine/trip-progress-engine/types"
)

// ProgressModel is the engine surface the HTTP layer depends on.
type ProgressModel interface {
	Start(ctx context.Context, tripID, tripName string) (*types.TripProgress, error)
	Get(ctx context.Context, tripID string) (*types.TripProgress, error)
	MarkComplete(ctx context.Context, tripID, stopID string) (*types.TripProgress, error)
	Skip(ctx context.Context, tripID, stopID string) (*types.TripProgress, error)
	ReplaceStop(ctx context.Context, tripID, oldStopID string, newStop types.TripStop) (*types.TripProgress, error)
	AdvanceDay(ctx context.Context, tripID string) (*types.TripProgress, error)
	UpdateStatus(ctx context.Context, tripID, stopID string, status types.StopStatus) (*types.TripProgress, error)
	Reset(ctx context.Context, tripID string) (*types.TripProgress, error)
}
