// Package outbox delivers the engine's sync intents to the remote trip
// record. Delivery is best-effort by contract: the remote copy is a
// mirror, and nothing here may affect local progress. Intents are queued
// non-blocking and retried by a single worker until acknowledged,
// exhausted, or dropped.
package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/RoamLine/trip-progress-engine/types"
	"go.uber.org/zap"
)

// Config holds outbox tuning.
type Config struct {
	// RemoteBaseURL is the base URL of the remote trip API.
	RemoteBaseURL string
	// APIKey, if set, is sent as a bearer token.
	APIKey string
	// QueueSize bounds the intent buffer; a full queue drops new intents.
	QueueSize int
	// MaxAttempts bounds delivery attempts per intent.
	MaxAttempts int
	// RequestTimeout is the per-request HTTP timeout.
	RequestTimeout time.Duration
	// RetryBackoff is the base delay between attempts; it grows linearly
	// with the attempt number.
	RetryBackoff time.Duration
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		QueueSize:      256,
		MaxAttempts:    5,
		RequestTimeout: 10 * time.Second,
		RetryBackoff:   2 * time.Second,
	}
}

// Outbox implements types.SyncRecorder over an HTTP remote.
type Outbox struct {
	config Config
	queue  chan types.SyncIntent
	client *http.Client
	log    *zap.SugaredLogger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates an outbox. Call Start to launch the delivery worker.
func New(cfg Config) *Outbox {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = def.RetryBackoff
	}

	return &Outbox{
		config: cfg,
		queue:  make(chan types.SyncIntent, cfg.QueueSize),
		client: &http.Client{Timeout: cfg.RequestTimeout},
		log:    logger.GetLogger().Named("outbox"),
		done:   make(chan struct{}),
	}
}

// Record enqueues an intent without blocking. When the queue is full the
// intent is dropped and counted; the engine's mutation path must never
// wait on mirroring.
func (o *Outbox) Record(intent types.SyncIntent) {
	select {
	case o.queue <- intent:
	default:
		droppedTotal.WithLabelValues("queue_full").Inc()
		o.log.Warnw("Outbox queue full, dropping intent",
			"trip_id", intent.TripID, "kind", intent.Kind)
	}
}

// Start launches the delivery worker. Safe to call once.
func (o *Outbox) Start() {
	o.startOnce.Do(func() {
		o.wg.Add(1)
		go o.run()
	})
}

// Stop drains nothing: it signals the worker and waits for it to finish
// the in-flight intent, or for ctx to expire. Queued intents are lost,
// which is acceptable for a best-effort mirror.
func (o *Outbox) Stop(ctx context.Context) {
	o.stopOnce.Do(func() {
		close(o.done)
	})

	finished := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		o.log.Warnw("Outbox shutdown timed out")
	}
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for {
		select {
		case <-o.done:
			return
		case intent := <-o.queue:
			o.process(intent)
		}
	}
}

func (o *Outbox) process(intent types.SyncIntent) {
	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		intent.Attempts = attempt

		permanent, err := o.deliver(intent)
		if err == nil {
			deliveredTotal.WithLabelValues(string(intent.Kind)).Inc()
			return
		}
		if permanent {
			droppedTotal.WithLabelValues("rejected").Inc()
			o.log.Warnw("Remote rejected sync intent, dropping",
				"trip_id", intent.TripID, "kind", intent.Kind, "error", err)
			return
		}

		retriesTotal.Inc()
		o.log.Debugw("Sync delivery failed, will retry",
			"trip_id", intent.TripID, "kind", intent.Kind,
			"attempt", attempt, "error", err)

		select {
		case <-o.done:
			return
		case <-time.After(o.config.RetryBackoff * time.Duration(attempt)):
		}
	}

	droppedTotal.WithLabelValues("exhausted").Inc()
	o.log.Warnw("Sync intent exhausted retries, dropping",
		"trip_id", intent.TripID, "kind", intent.Kind)
}

// deliver POSTs one intent. permanent reports a failure (client error
// from the remote) that retrying cannot fix.
func (o *Outbox) deliver(intent types.SyncIntent) (permanent bool, err error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return true, err
	}

	url := fmt.Sprintf("%s/v1/trips/%s/progress-sync", o.config.RemoteBaseURL, intent.TripID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return true, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", intent.ID)
	if o.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return true, fmt.Errorf("remote rejected intent: %s", resp.Status)
	default:
		return false, fmt.Errorf("remote unavailable: %s", resp.Status)
	}
}
