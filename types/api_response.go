package types

import "time"

// StandardResponse is the unified response format for all API endpoints
type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information
type ErrorInfo struct {
	Code    string                 `json:"code"`              // Machine-readable error code
	Message string                 `json:"message"`           // Human-readable error message
	Details map[string]interface{} `json:"details,omitempty"` // Additional error context
	TraceID string                 `json:"trace_id,omitempty"`
}

// MetaInfo contains metadata about the response
type MetaInfo struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

// Error codes for standardized error handling
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)
