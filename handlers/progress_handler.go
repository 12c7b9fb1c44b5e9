package handlers

import (
	apperrors "github.com/RoamLine/trip-progress-engine/errors"
	"github.com/RoamLine/trip-progress-engine/middleware"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/gin-gonic/gin"
)

// ProgressHandler exposes the trip progress engine over HTTP. It is a
// thin routing layer: all state logic lives in the engine.
type ProgressHandler struct {
	model   ProgressModel
	version string
}

// NewProgressHandler creates a new ProgressHandler with the given engine.
func NewProgressHandler(model ProgressModel, version string) *ProgressHandler {
	return &ProgressHandler{model: model, version: version}
}

// StartProgressRequest is the request body for starting trip progress.
type StartProgressRequest struct {
	TripName string `json:"tripName" binding:"required"`
}

// StopActionRequest identifies the stop a complete/skip acts on.
type StopActionRequest struct {
	StopID string `json:"stopId" binding:"required"`
}

// ReplaceStopRequest carries a smart-reroute substitution.
type ReplaceStopRequest struct {
	OldStopID string         `json:"oldStopId" binding:"required"`
	Stop      types.TripStop `json:"stop" binding:"required"`
}

// UpdateStatusRequest is the body for the direct status escape hatch.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StartProgress handles POST /v1/trips/:id/progress
func (h *ProgressHandler) StartProgress(c *gin.Context) {
	tripID := c.Param("id")

	var req StartProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	progress, err := h.model.Start(c.Request.Context(), tripID, req.TripName)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Created(c, progress)
}

// GetProgress handles GET /v1/trips/:id/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	progress, err := h.model.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}

// CompleteStop handles POST /v1/trips/:id/progress/complete
func (h *ProgressHandler) CompleteStop(c *gin.Context) {
	var req StopActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	progress, err := h.model.MarkComplete(c.Request.Context(), c.Param("id"), req.StopID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}

// SkipStop handles POST /v1/trips/:id/progress/skip
func (h *ProgressHandler) SkipStop(c *gin.Context) {
	var req StopActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	progress, err := h.model.Skip(c.Request.Context(), c.Param("id"), req.StopID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}

// ReplaceStop handles POST /v1/trips/:id/progress/replace
func (h *ProgressHandler) ReplaceStop(c *gin.Context) {
	var req ReplaceStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}
	if req.Stop.ID == "" {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", "stop.id is required"))
		return
	}

	progress, err := h.model.ReplaceStop(c.Request.Context(), c.Param("id"), req.OldStopID, req.Stop)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}

// AdvanceDay handles POST /v1/trips/:id/progress/advance-day
func (h *ProgressHandler) AdvanceDay(c *gin.Context) {
	progress, err := h.model.AdvanceDay(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}

// ResetProgress handles POST /v1/trips/:id/progress/reset
func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	progress, err := h.model.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}

// UpdateStopStatus handles PATCH /v1/trips/:id/progress/stops/:stopId
func (h *ProgressHandler) UpdateStopStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	progress, err := h.model.UpdateStatus(
		c.Request.Context(),
		c.Param("id"),
		c.Param("stopId"),
		types.StopStatus(req.Status),
	)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.NewResponseBuilder(c, h.version).Success(c, progress)
}
