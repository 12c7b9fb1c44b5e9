package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/RoamLine/trip-progress-engine/errors"
	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/RoamLine/trip-progress-engine/store/memory"
	"github.com/RoamLine/trip-progress-engine/templates"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

const beachTrip = "Beach & Culture Explorer"

// captureRecorder collects emitted sync intents for assertions.
type captureRecorder struct {
	mu      sync.Mutex
	intents []types.SyncIntent
}

func (r *captureRecorder) Record(intent types.SyncIntent) {
	r.mu.Lock()
	r.intents = append(r.intents, intent)
	r.mu.Unlock()
}

func (r *captureRecorder) kinds() []types.SyncKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.SyncKind, len(r.intents))
	for i, in := range r.intents {
		out[i] = in.Kind
	}
	return out
}

// failingStore always fails its writes.
type failingStore struct {
	memory.SnapshotStore
}

func (f *failingStore) Save(context.Context, map[string]*types.TripProgress) error {
	return errors.New("disk on fire")
}

func newTestEngine(t *testing.T) (*Engine, *captureRecorder) {
	t.Helper()
	rec := &captureRecorder{}
	e := NewEngine(templates.NewStaticProvider(), memory.New(), rec)
	e.now = func() time.Time {
		return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	}
	return e, rec
}

// assertSingleCurrent checks the per-day invariant: at most one CURRENT
// stop, and if present it is the first stop that is not terminal.
func assertSingleCurrent(t *testing.T, p *types.TripProgress) {
	t.Helper()

	count := 0
	firstOpen := -1
	for i, s := range p.Stops {
		if s.Status == types.StopStatusCurrent {
			count++
			if firstOpen == -1 {
				firstOpen = i
			}
		}
		if !s.Status.IsTerminal() && firstOpen == -1 {
			firstOpen = i
		}
	}
	require.LessOrEqual(t, count, 1, "more than one CURRENT stop")
	if count == 1 {
		assert.Equal(t, types.StopStatusCurrent, p.Stops[firstOpen].Status,
			"CURRENT stop is not the first non-terminal stop")
		require.NotNil(t, p.CurrentStop())
		assert.Equal(t, p.Stops[firstOpen].ID, p.CurrentStop().ID)
	} else {
		assert.Nil(t, p.CurrentStop())
	}
	if p.TripCompleted {
		assert.True(t, p.DayCompleted, "tripCompleted implies dayCompleted")
	}
}

func TestStartSeedsDayOne(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	p, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	assert.Equal(t, "t1", p.TripID)
	assert.Equal(t, "Coastal Heritage", p.TripTheme)
	assert.Equal(t, 1, p.CurrentDay)
	assert.Equal(t, 3, p.TotalDays)
	require.Len(t, p.Stops, 5)
	assert.Equal(t, "1-1", p.Stops[0].ID)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[0].Status)
	for _, s := range p.Stops[1:] {
		assert.Equal(t, types.StopStatusUpcoming, s.Status)
	}
	assert.False(t, p.DayCompleted)
	assert.False(t, p.TripCompleted)
}

func TestStartIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)
	_, err = e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)

	// A duplicate start must not reset progress.
	p, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)
	assert.Equal(t, types.StopStatusCompleted, p.Stops[0].Status)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[1].Status)
}

func TestStartUnknownTripNameUsesFallback(t *testing.T) {
	e, _ := newTestEngine(t)

	p, err := e.Start(context.Background(), "t2", "Mystery Weekend")
	require.NoError(t, err)

	assert.Equal(t, templates.DefaultTheme, p.TripTheme)
	assert.Equal(t, templates.DefaultTotalDays, p.TotalDays)
	require.Len(t, p.Stops, 4)
	assert.Equal(t, "g1", p.Stops[0].ID)
}

func TestGetUnknownTrip(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Get(context.Background(), "nope")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.TripProgressNotFound, appErr.Type)
}

func TestMarkCompleteAdvancesCurrentPointer(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	// Complete stops 1 through 4; after each, the pointer sits on the
	// next stop.
	for i := 1; i <= 4; i++ {
		p, err := e.MarkComplete(ctx, "t1", fmt.Sprintf("1-%d", i))
		require.NoError(t, err)
		assertSingleCurrent(t, p)
		assert.False(t, p.DayCompleted)
		assert.Equal(t, types.StopStatusCurrent, p.Stops[i].Status)
	}

	p, err := e.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[4].Status)
}

func TestCompletingFinalStopEndsDayNotTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := e.MarkComplete(ctx, "t1", fmt.Sprintf("1-%d", i))
		require.NoError(t, err)
	}

	p, err := e.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, p.DayCompleted)
	assert.False(t, p.TripCompleted, "day 1 of 3 must not complete the trip")
}

func TestSkipSharesCompletionLogic(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	p, err := e.Skip(ctx, "t1", "1-1")
	require.NoError(t, err)
	assert.Equal(t, types.StopStatusSkipped, p.Stops[0].Status)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[1].Status)
	assertSingleCurrent(t, p)

	// A mix of skips and completes still ends the day.
	for _, id := range []string{"1-2", "1-3"} {
		_, err = e.MarkComplete(ctx, "t1", id)
		require.NoError(t, err)
	}
	_, err = e.Skip(ctx, "t1", "1-4")
	require.NoError(t, err)
	p, err = e.MarkComplete(ctx, "t1", "1-5")
	require.NoError(t, err)
	assert.True(t, p.DayCompleted)
}

func TestFinishingLastStopEndsDayDespiteOpenMiddleStop(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	// Jump straight to the final stop; 1-1..1-4 are still open.
	p, err := e.MarkComplete(ctx, "t1", "1-5")
	require.NoError(t, err)

	assert.True(t, p.DayCompleted, "the last stop always ends the day")
	assert.False(t, p.TripCompleted, "an open middle stop blocks trip completion")
	assert.Equal(t, types.StopStatusCurrent, p.Stops[0].Status)
}

func TestDayCompletedIsMonotonic(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	_, err = e.MarkComplete(ctx, "t1", "1-5")
	require.NoError(t, err)

	// Finishing the stragglers keeps the flag set.
	for _, id := range []string{"1-1", "1-2", "1-3", "1-4"} {
		p, err := e.MarkComplete(ctx, "t1", id)
		require.NoError(t, err)
		assert.True(t, p.DayCompleted)
	}
}

func TestRepeatedCompleteIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	first, err := e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)
	second, err := e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)

	// The second call finds no UPCOMING successor (1-2 is already
	// CURRENT) and leaves the pointer alone.
	assert.Equal(t, first.Stops, second.Stops)
	assertSingleCurrent(t, second)
}

func TestFinishDoesNotClobberTerminalSuccessor(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	// Force 1-2 terminal out of band, then finish 1-1. The promotion
	// step must leave 1-2 untouched.
	_, err = e.UpdateStatus(ctx, "t1", "1-2", types.StopStatusCompleted)
	require.NoError(t, err)

	p, err := e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)
	assert.Equal(t, types.StopStatusCompleted, p.Stops[1].Status)
}

func TestAdvanceDayReseeds(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := e.MarkComplete(ctx, "t1", fmt.Sprintf("1-%d", i))
		require.NoError(t, err)
	}

	p, err := e.AdvanceDay(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 2, p.CurrentDay)
	require.Len(t, p.Stops, 5)
	assert.Equal(t, "2-1", p.Stops[0].ID)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[0].Status)
	for _, s := range p.Stops[1:] {
		assert.Equal(t, types.StopStatusUpcoming, s.Status)
	}
	assert.False(t, p.DayCompleted)
	assert.False(t, p.TripCompleted)
	assert.Contains(t, rec.kinds(), types.SyncKindSetDay)
}

func TestAdvanceDayPastFinalDayIsNoop(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", "Hanoi Street Food Crawl")
	require.NoError(t, err)

	_, err = e.AdvanceDay(ctx, "t1")
	require.NoError(t, err)

	before, err := e.Get(ctx, "t1")
	require.NoError(t, err)
	intentsBefore := len(rec.kinds())

	after, err := e.AdvanceDay(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 2, after.CurrentDay)
	assert.Len(t, rec.kinds(), intentsBefore, "no-op must not emit an intent")
}

func TestFullTripCompletion(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		for i := 1; i <= 5; i++ {
			p, err := e.MarkComplete(ctx, "t1", fmt.Sprintf("%d-%d", day, i))
			require.NoError(t, err)
			assertSingleCurrent(t, p)
		}
		if day < 3 {
			_, err := e.AdvanceDay(ctx, "t1")
			require.NoError(t, err)
		}
	}

	p, err := e.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, p.DayCompleted)
	assert.True(t, p.TripCompleted)

	kinds := rec.kinds()
	assert.Contains(t, kinds, types.SyncKindSetStatus)
}

func TestResetReturnsToFreshDayOne(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	started, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		for i := 1; i <= 5; i++ {
			_, err := e.MarkComplete(ctx, "t1", fmt.Sprintf("%d-%d", day, i))
			require.NoError(t, err)
		}
		if day < 3 {
			_, err := e.AdvanceDay(ctx, "t1")
			require.NoError(t, err)
		}
	}

	p, err := e.Reset(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, p.CurrentDay)
	assert.Equal(t, started.TripName, p.TripName)
	assert.Equal(t, started.TripTheme, p.TripTheme)
	assert.Equal(t, started.TotalDays, p.TotalDays)
	assert.Equal(t, started.StartedAt, p.StartedAt)
	assert.False(t, p.DayCompleted)
	assert.False(t, p.TripCompleted)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[0].Status)
	for _, s := range p.Stops[1:] {
		assert.Equal(t, types.StopStatusUpcoming, s.Status)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)
	_, err = e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)

	once, err := e.Reset(ctx, "t1")
	require.NoError(t, err)
	twice, err := e.Reset(ctx, "t1")
	require.NoError(t, err)

	// The clock is pinned, so the records must match exactly.
	assert.Equal(t, once, twice)
}

func TestUnknownIDsLeaveStateUntouched(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)
	before, err := e.Get(ctx, "t1")
	require.NoError(t, err)

	var appErr *apperrors.AppError

	_, err = e.MarkComplete(ctx, "ghost", "1-1")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.TripProgressNotFound, appErr.Type)

	_, err = e.Skip(ctx, "t1", "9-9")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.StopNotFoundError, appErr.Type)

	_, err = e.ReplaceStop(ctx, "t1", "9-9", types.TripStop{ID: "x"})
	require.ErrorAs(t, err, &appErr)

	_, err = e.AdvanceDay(ctx, "ghost")
	require.ErrorAs(t, err, &appErr)

	_, err = e.Reset(ctx, "ghost")
	require.ErrorAs(t, err, &appErr)

	after, err := e.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, rec.kinds(), "failed operations must not emit intents")
}

func TestReplaceStopPreservesStatus(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)
	_, err = e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)

	// Weather reroute: swap the beach stop for an indoor alternative.
	// The replacement claims to be COMPLETED; that must be ignored.
	replacement := types.TripStop{
		ID:       "1-2b",
		Name:     "3D Art Museum",
		Category: "museum",
		Status:   types.StopStatusCompleted,
		Address:  "Tran Nhan Tong",
	}
	p, err := e.ReplaceStop(ctx, "t1", "1-2", replacement)
	require.NoError(t, err)

	assert.Equal(t, "1-2b", p.Stops[1].ID)
	assert.Equal(t, "3D Art Museum", p.Stops[1].Name)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[1].Status,
		"substitution must not change progress")
	assert.False(t, p.DayCompleted)
	assertSingleCurrent(t, p)
}

func TestReplaceStopRejectsDuplicateID(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	before, err := e.Get(ctx, "t1")
	require.NoError(t, err)

	// A replacement reusing another stop's ID would leave two stops
	// answering to "1-1".
	_, err = e.ReplaceStop(ctx, "t1", "1-2", types.TripStop{ID: "1-1", Name: "Duplicate"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)

	// Replacing a stop with itself (same ID, new content) stays legal.
	p, err := e.ReplaceStop(ctx, "t1", "1-2", types.TripStop{ID: "1-2", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Stops[1].Name)

	after, err := e.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, before.Stops[0], after.Stops[0], "rejected replace must not touch state")
}

func TestUpdateStatusBypassesFlagRecompute(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	p, err := e.UpdateStatus(ctx, "t1", "1-5", types.StopStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, types.StopStatusCompleted, p.Stops[4].Status)
	assert.False(t, p.DayCompleted, "the escape hatch does not recompute flags")
	assert.Equal(t, types.StopStatusCurrent, p.Stops[0].Status,
		"the escape hatch does not move the pointer")
}

func TestUpdateStatusRejectsInvalidValue(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	_, err = e.UpdateStatus(ctx, "t1", "1-1", "TELEPORTED")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.InvalidStopStatusType, appErr.Type)
}

func TestSyncIntentsCarryTransitionDetails(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	_, err = e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)
	_, err = e.Skip(ctx, "t1", "1-2")
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.intents, 2)

	assert.Equal(t, types.SyncKindAdvance, rec.intents[0].Kind)
	assert.Equal(t, "1-1", rec.intents[0].StopID)
	assert.Equal(t, "COMPLETED", rec.intents[0].Status)
	assert.NotEmpty(t, rec.intents[0].ID)

	assert.Equal(t, "1-2", rec.intents[1].StopID)
	assert.Equal(t, "SKIPPED", rec.intents[1].Status)
}

func TestStateSurvivesRehydration(t *testing.T) {
	snapshots := memory.New()
	first := NewEngine(templates.NewStaticProvider(), snapshots, nil)
	ctx := context.Background()

	_, err := first.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)
	_, err = first.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)
	_, err = first.Skip(ctx, "t1", "1-2")
	require.NoError(t, err)

	// Simulate a restart: a new engine over the same durable store.
	second := NewEngine(templates.NewStaticProvider(), snapshots, nil)
	require.NoError(t, second.Hydrate(ctx))

	p, err := second.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, types.StopStatusCompleted, p.Stops[0].Status)
	assert.Equal(t, types.StopStatusSkipped, p.Stops[1].Status)
	assert.Equal(t, types.StopStatusCurrent, p.Stops[2].Status)
}

func TestSnapshotFailureDoesNotFailMutation(t *testing.T) {
	e := NewEngine(templates.NewStaticProvider(), &failingStore{}, nil)
	ctx := context.Background()

	_, err := e.Start(ctx, "t1", beachTrip)
	require.NoError(t, err)

	p, err := e.MarkComplete(ctx, "t1", "1-1")
	require.NoError(t, err)
	assert.Equal(t, types.StopStatusCompleted, p.Stops[0].Status)
}
