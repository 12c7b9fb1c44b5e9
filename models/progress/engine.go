// Package progress owns trip progress state: per-trip stop statuses,
// day rollover, and trip completion. It is the only writer of that
// state; handlers and sync are thin layers around it.
package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/RoamLine/trip-progress-engine/errors"
	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/RoamLine/trip-progress-engine/store"
	"github.com/RoamLine/trip-progress-engine/templates"
	"github.com/RoamLine/trip-progress-engine/types"
	"go.uber.org/zap"
)

// Config holds engine tuning knobs.
type Config struct {
	// SaveTimeout bounds a single snapshot write.
	SaveTimeout time.Duration
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		SaveTimeout: 5 * time.Second,
	}
}

// ThemeResolver is an optional upgrade for template providers that also
// resolve a display theme per trip name.
type ThemeResolver interface {
	Theme(tripName string) string
}

// Engine is the trip progress store: a mutex-guarded mapping from trip
// ID to its TripProgress record. Every mutation computes a fresh record,
// installs it whole, snapshots the full mapping, and emits sync intents.
// The in-memory mapping is authoritative; snapshot failures are logged,
// never surfaced.
type Engine struct {
	mu        sync.Mutex
	trips     map[string]*types.TripProgress
	templates templates.Provider
	snapshots store.SnapshotStore
	recorder  types.SyncRecorder
	log       *zap.SugaredLogger
	config    Config

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewEngine creates an engine over the given collaborators.
func NewEngine(provider templates.Provider, snapshots store.SnapshotStore, recorder types.SyncRecorder, cfg ...Config) *Engine {
	config := DefaultConfig()
	if len(cfg) > 0 {
		config = cfg[0]
	}
	if recorder == nil {
		recorder = types.NoopSyncRecorder{}
	}

	return &Engine{
		trips:     make(map[string]*types.TripProgress),
		templates: provider,
		snapshots: snapshots,
		recorder:  recorder,
		log:       logger.GetLogger().Named("progress"),
		config:    config,
		now:       time.Now,
	}
}

// Hydrate loads the persisted snapshot into memory. Called once at
// startup, before the engine serves any operation.
func (e *Engine) Hydrate(ctx context.Context) error {
	snapshot, err := e.snapshots.Load(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.trips = snapshot
	e.mu.Unlock()

	e.log.Infow("Hydrated progress state", "trips", len(snapshot))
	return nil
}

// Start creates the progress record for a trip, seeding day 1 from the
// template provider. Starting an already-started trip is a no-op that
// returns the existing record: duplicate initialization from reloads
// must never reset progress.
func (e *Engine) Start(ctx context.Context, tripID, tripName string) (*types.TripProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.trips[tripID]; ok {
		return existing.Copy(), nil
	}

	theme := templates.DefaultTheme
	if tr, ok := e.templates.(ThemeResolver); ok {
		theme = tr.Theme(tripName)
	}

	now := e.now().UTC()
	record := &types.TripProgress{
		TripID:      tripID,
		TripName:    tripName,
		TripTheme:   theme,
		CurrentDay:  1,
		TotalDays:   e.templates.TotalDays(tripName),
		Stops:       e.templates.Resolve(tripName, 1),
		StartedAt:   now,
		LastUpdated: now,
	}
	e.trips[tripID] = record
	e.persistLocked(ctx)

	transitionsTotal.WithLabelValues("start").Inc()
	e.log.Infow("Trip progress started",
		"trip_id", tripID, "trip_name", tripName, "total_days", record.TotalDays)
	return record.Copy(), nil
}

// Get returns a copy of the trip's progress record.
func (e *Engine) Get(ctx context.Context, tripID string) (*types.TripProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.trips[tripID]
	if !ok {
		return nil, apperrors.ProgressNotFound(tripID)
	}
	return record.Copy(), nil
}

// MarkComplete marks the stop completed and advances the current pointer.
func (e *Engine) MarkComplete(ctx context.Context, tripID, stopID string) (*types.TripProgress, error) {
	return e.finishStop(ctx, tripID, stopID, types.StopStatusCompleted)
}

// Skip marks the stop skipped. Skipping and completing share the same
// transition: a skipped stop is as final as a completed one.
func (e *Engine) Skip(ctx context.Context, tripID, stopID string) (*types.TripProgress, error) {
	return e.finishStop(ctx, tripID, stopID, types.StopStatusSkipped)
}

// finishStop applies a terminal status to one stop and recomputes the
// day/trip completion flags over the whole list.
func (e *Engine) finishStop(ctx context.Context, tripID, stopID string, terminal types.StopStatus) (*types.TripProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.trips[tripID]
	if !ok {
		return nil, apperrors.ProgressNotFound(tripID)
	}

	record := current.Copy()
	idx := record.FindStop(stopID)
	if idx < 0 {
		return nil, apperrors.StopNotFound(tripID, stopID)
	}

	record.Stops[idx].Status = terminal

	// Promote the next stop only from UPCOMING. Anything else means the
	// pointer already moved (or the stop is finished) and must not be
	// clobbered.
	if next := idx + 1; next < len(record.Stops) && record.Stops[next].Status == types.StopStatusUpcoming {
		record.Stops[next].Status = types.StopStatusCurrent
	}

	isLastStop := idx == len(record.Stops)-1
	allDone := record.AllStopsDone()

	// Finishing the final stop ends the day even if an earlier stop is
	// still open.
	record.DayCompleted = isLastStop || allDone
	record.TripCompleted = allDone && record.CurrentDay == record.TotalDays
	record.LastUpdated = e.now().UTC()

	e.trips[tripID] = record
	e.persistLocked(ctx)

	op := "complete"
	if terminal == types.StopStatusSkipped {
		op = "skip"
	}
	transitionsTotal.WithLabelValues(op).Inc()

	if cur := record.CurrentStop(); cur != nil {
		e.log.Debugw("Current stop advanced",
			"trip_id", tripID, "stop_id", cur.ID, "stop_name", cur.Name)
	}

	intent := types.NewSyncIntent(tripID, types.SyncKindAdvance)
	intent.StopID = stopID
	intent.Status = terminal.String()
	e.recorder.Record(intent)

	if record.TripCompleted {
		tripsCompletedTotal.Inc()
		done := types.NewSyncIntent(tripID, types.SyncKindSetStatus)
		done.Status = "completed"
		e.recorder.Record(done)
		e.log.Infow("Trip completed", "trip_id", tripID, "day", record.CurrentDay)
	}

	return record.Copy(), nil
}

// ReplaceStop swaps a stop's content in place, preserving its status and
// position. Used for smart-reroute substitutions (e.g. a weather-driven
// indoor alternative); the traveler's place in the sequence must not
// move, so completion flags are untouched.
func (e *Engine) ReplaceStop(ctx context.Context, tripID, oldStopID string, newStop types.TripStop) (*types.TripProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.trips[tripID]
	if !ok {
		return nil, apperrors.ProgressNotFound(tripID)
	}

	record := current.Copy()
	idx := record.FindStop(oldStopID)
	if idx < 0 {
		return nil, apperrors.StopNotFound(tripID, oldStopID)
	}

	// Stop IDs are unique within the day; a replacement reusing another
	// stop's ID would make both unaddressable.
	if dup := record.FindStop(newStop.ID); dup >= 0 && dup != idx {
		return nil, apperrors.NewConflictError("Stop ID already in use",
			fmt.Sprintf("Stop ID: %s", newStop.ID))
	}

	replacement := newStop.Copy()
	// The replacement's embedded status is ignored: substitution must not
	// promote or demote progress.
	replacement.Status = record.Stops[idx].Status
	record.Stops[idx] = replacement
	record.LastUpdated = e.now().UTC()

	e.trips[tripID] = record
	e.persistLocked(ctx)

	transitionsTotal.WithLabelValues("replace").Inc()
	e.log.Infow("Stop replaced",
		"trip_id", tripID, "old_stop_id", oldStopID, "new_stop_id", replacement.ID)
	return record.Copy(), nil
}

// AdvanceDay rolls the trip to its next day, reseeding the stop list.
// The engine does not require the prior day to be complete; that is a
// caller convention. Advancing past the final day is a quiet no-op.
// The prior day's stops are discarded: day-level summaries are the
// caller's to persist before advancing.
func (e *Engine) AdvanceDay(ctx context.Context, tripID string) (*types.TripProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.trips[tripID]
	if !ok {
		return nil, apperrors.ProgressNotFound(tripID)
	}

	if current.CurrentDay >= current.TotalDays {
		return current.Copy(), nil
	}

	record := current.Copy()
	record.CurrentDay++
	record.Stops = e.templates.Resolve(record.TripName, record.CurrentDay)
	record.DayCompleted = false
	record.TripCompleted = false
	record.LastUpdated = e.now().UTC()

	e.trips[tripID] = record
	e.persistLocked(ctx)

	transitionsTotal.WithLabelValues("advance_day").Inc()

	intent := types.NewSyncIntent(tripID, types.SyncKindSetDay)
	intent.Day = record.CurrentDay
	e.recorder.Record(intent)

	e.log.Infow("Advanced to next day",
		"trip_id", tripID, "day", record.CurrentDay, "stops", len(record.Stops))
	return record.Copy(), nil
}

// UpdateStatus assigns a stop's status directly, bypassing the guarded
// transitions. It does not recompute completion flags or move the
// current pointer; callers using it own the consistency of the result.
func (e *Engine) UpdateStatus(ctx context.Context, tripID, stopID string, status types.StopStatus) (*types.TripProgress, error) {
	if !status.IsValid() {
		return nil, apperrors.InvalidStopStatus(status.String())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.trips[tripID]
	if !ok {
		return nil, apperrors.ProgressNotFound(tripID)
	}

	record := current.Copy()
	idx := record.FindStop(stopID)
	if idx < 0 {
		return nil, apperrors.StopNotFound(tripID, stopID)
	}

	record.Stops[idx].Status = status
	record.LastUpdated = e.now().UTC()

	e.trips[tripID] = record
	e.persistLocked(ctx)

	transitionsTotal.WithLabelValues("update_status").Inc()
	return record.Copy(), nil
}

// Reset returns the trip to a fresh day 1. Name, theme, total days, and
// the original start time are preserved; the record itself is never
// deleted.
func (e *Engine) Reset(ctx context.Context, tripID string) (*types.TripProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.trips[tripID]
	if !ok {
		return nil, apperrors.ProgressNotFound(tripID)
	}

	record := current.Copy()
	record.CurrentDay = 1
	record.Stops = e.templates.Resolve(record.TripName, 1)
	record.DayCompleted = false
	record.TripCompleted = false
	record.LastUpdated = e.now().UTC()

	e.trips[tripID] = record
	e.persistLocked(ctx)

	transitionsTotal.WithLabelValues("reset").Inc()
	e.log.Infow("Trip progress reset", "trip_id", tripID)
	return record.Copy(), nil
}

// persistLocked snapshots the full mapping. Callers hold e.mu. Failures
// are logged and counted, never propagated: the in-memory mutation is
// the operation's outcome, the durable copy is eventually consistent.
func (e *Engine) persistLocked(ctx context.Context) {
	snapshot := make(map[string]*types.TripProgress, len(e.trips))
	for id, p := range e.trips {
		snapshot[id] = p
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.config.SaveTimeout)
	defer cancel()

	if err := e.snapshots.Save(saveCtx, snapshot); err != nil {
		snapshotFailuresTotal.Inc()
		e.log.Errorw("Snapshot write failed", "error", err)
	}
}
