package outbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

type remoteStub struct {
	mu       sync.Mutex
	requests []types.SyncIntent
	idemKeys []string
	// statuses to return, in order; the last one repeats.
	statuses []int
	calls    int
}

func (r *remoteStub) handler(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var intent types.SyncIntent
	_ = json.NewDecoder(req.Body).Decode(&intent)
	r.requests = append(r.requests, intent)
	r.idemKeys = append(r.idemKeys, req.Header.Get("Idempotency-Key"))

	status := r.statuses[min(r.calls, len(r.statuses)-1)]
	r.calls++
	w.WriteHeader(status)
}

func (r *remoteStub) received() []types.SyncIntent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.SyncIntent(nil), r.requests...)
}

func newTestOutbox(t *testing.T, baseURL string) *Outbox {
	t.Helper()
	o := New(Config{
		RemoteBaseURL:  baseURL,
		QueueSize:      8,
		MaxAttempts:    3,
		RequestTimeout: time.Second,
		RetryBackoff:   5 * time.Millisecond,
	})
	o.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		o.Stop(ctx)
	})
	return o
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDeliversIntent(t *testing.T) {
	stub := &remoteStub{statuses: []int{http.StatusOK}}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	defer srv.Close()

	o := newTestOutbox(t, srv.URL)

	intent := types.NewSyncIntent("t1", types.SyncKindAdvance)
	intent.StopID = "1-1"
	intent.Status = "COMPLETED"
	o.Record(intent)

	waitFor(t, func() bool { return len(stub.received()) == 1 })

	got := stub.received()[0]
	assert.Equal(t, "t1", got.TripID)
	assert.Equal(t, types.SyncKindAdvance, got.Kind)
	assert.Equal(t, "1-1", got.StopID)

	stub.mu.Lock()
	assert.Equal(t, intent.ID, stub.idemKeys[0])
	stub.mu.Unlock()
}

func TestRetriesUntilAcknowledged(t *testing.T) {
	stub := &remoteStub{statuses: []int{
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusOK,
	}}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	defer srv.Close()

	o := newTestOutbox(t, srv.URL)
	o.Record(types.NewSyncIntent("t1", types.SyncKindSetDay))

	waitFor(t, func() bool { return len(stub.received()) == 3 })

	// All attempts reuse the same idempotency key so the remote can
	// deduplicate.
	stub.mu.Lock()
	assert.Equal(t, stub.idemKeys[0], stub.idemKeys[1])
	assert.Equal(t, stub.idemKeys[0], stub.idemKeys[2])
	stub.mu.Unlock()
}

func TestRejectionIsNotRetried(t *testing.T) {
	stub := &remoteStub{statuses: []int{http.StatusUnprocessableEntity}}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	defer srv.Close()

	o := newTestOutbox(t, srv.URL)
	o.Record(types.NewSyncIntent("t1", types.SyncKindSetStatus))

	waitFor(t, func() bool { return len(stub.received()) == 1 })
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, stub.received(), 1)
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	stub := &remoteStub{statuses: []int{http.StatusInternalServerError}}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	defer srv.Close()

	o := newTestOutbox(t, srv.URL)
	o.Record(types.NewSyncIntent("t1", types.SyncKindAdvance))

	waitFor(t, func() bool { return len(stub.received()) == 3 })
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, stub.received(), 3, "MaxAttempts bounds delivery attempts")
}

func TestFullQueueDropsWithoutBlocking(t *testing.T) {
	// No worker started: the queue only fills.
	o := New(Config{
		RemoteBaseURL: "http://127.0.0.1:0",
		QueueSize:     2,
		RetryBackoff:  time.Millisecond,
	})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			o.Record(types.NewSyncIntent("t1", types.SyncKindAdvance))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	require.Len(t, o.queue, 2)
}
