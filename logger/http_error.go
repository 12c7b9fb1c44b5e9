package logger

import (
	"github.com/gin-gonic/gin"
)

// LogHTTPError logs an HTTP request error with context from a gin.Context.
// Request metadata is attached as structured fields so log aggregation can
// group failures by path and status.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	log := GetLogger()

	fields := []interface{}{
		"error", err,
		"status_code", statusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
	}

	if requestID, ok := c.Get("request_id"); ok {
		fields = append(fields, "request_id", requestID)
	}

	log.Errorw(message, fields...)
}
