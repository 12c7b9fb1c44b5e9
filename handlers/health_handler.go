package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/RoamLine/trip-progress-engine/store"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/gin-gonic/gin"
)

// slowPingThreshold marks the snapshot backend degraded: still
// answering, but slow enough that snapshot writes will start eating
// into their save timeout.
const slowPingThreshold = 250 * time.Millisecond

// HealthHandler reports service health. Readiness pings the snapshot
// backend: the engine can run without it, but a fresh deploy cannot
// rehydrate, so routing traffic to it would lose progress history.
type HealthHandler struct {
	snapshots store.SnapshotStore
	version   string
	startedAt time.Time
}

func NewHealthHandler(snapshots store.SnapshotStore, version string) *HealthHandler {
	return &HealthHandler{
		snapshots: snapshots,
		version:   version,
		startedAt: time.Now(),
	}
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck handles kubernetes readiness probe
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.check(c)
	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

// DetailedHealth provides detailed health information
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.check(c))
}

func (h *HealthHandler) check(c *gin.Context) types.HealthCheck {
	health := types.HealthCheck{
		Status:     types.HealthStatusUp,
		Version:    h.version,
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp:  time.Now().UTC(),
		Components: map[string]types.ComponentHealth{},
	}

	snapshot := types.ComponentHealth{Status: types.HealthStatusUp}
	start := time.Now()
	err := h.snapshots.Ping(c.Request.Context())
	elapsed := time.Since(start)
	switch {
	case err != nil:
		snapshot = types.ComponentHealth{
			Status:  types.HealthStatusDown,
			Details: err.Error(),
		}
		health.Status = types.HealthStatusDown
	case elapsed > slowPingThreshold:
		snapshot = types.ComponentHealth{
			Status:  types.HealthStatusDegraded,
			Details: fmt.Sprintf("ping took %s", elapsed.Round(time.Millisecond)),
		}
		health.Status = types.HealthStatusDegraded
	}
	health.Components["snapshot_store"] = snapshot

	return health
}
