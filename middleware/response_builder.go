package middleware

import (
	"net/http"
	"time"

	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/gin-gonic/gin"
)

// ResponseBuilder provides methods for building standardized API responses
type ResponseBuilder struct {
	requestID string
	version   string
}

// NewResponseBuilder creates a new response builder
func NewResponseBuilder(c *gin.Context, version string) *ResponseBuilder {
	return &ResponseBuilder{
		requestID: c.GetString(RequestIDKey),
		version:   version,
	}
}

// Success creates a successful response
func (rb *ResponseBuilder) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, rb.envelope(data))
}

// Created creates a resource created response
func (rb *ResponseBuilder) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, rb.envelope(data))
}

func (rb *ResponseBuilder) envelope(data interface{}) types.StandardResponse {
	return types.StandardResponse{
		Success: true,
		Data:    data,
		Meta: &types.MetaInfo{
			RequestID: rb.requestID,
			Timestamp: time.Now().UTC(),
			Version:   rb.version,
		},
	}
}
