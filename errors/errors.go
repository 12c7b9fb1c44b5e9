package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError       ErrorType = "VALIDATION_ERROR"
	NotFoundError         ErrorType = "NOT_FOUND"
	DatabaseError         ErrorType = "DATABASE_ERROR"
	ServerError           ErrorType = "SERVER_ERROR"
	ConflictError         ErrorType = "CONFLICT"
	TripProgressNotFound  ErrorType = "TRIP_PROGRESS_NOT_FOUND"
	StopNotFoundError     ErrorType = "STOP_NOT_FOUND"
	InvalidStopStatusType ErrorType = "INVALID_STOP_STATUS"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped raw error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code for the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return getHTTPStatus(e.Type)
	}
	return e.HTTPStatus
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// ProgressNotFound reports that no progress record has been started for
// the given trip ID.
func ProgressNotFound(tripID string) *AppError {
	return &AppError{
		Type:       TripProgressNotFound,
		Message:    "Trip progress not found",
		Detail:     fmt.Sprintf("Trip ID: %s", tripID),
		HTTPStatus: http.StatusNotFound,
	}
}

// StopNotFound reports that the given stop ID does not exist in the
// trip's current day.
func StopNotFound(tripID, stopID string) *AppError {
	return &AppError{
		Type:       StopNotFoundError,
		Message:    "Stop not found in current day",
		Detail:     fmt.Sprintf("Trip ID: %s, Stop ID: %s", tripID, stopID),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidStopStatus reports a status value outside the allowed set.
func InvalidStopStatus(status string) *AppError {
	return &AppError{
		Type:       InvalidStopStatusType,
		Message:    "Invalid stop status",
		Detail:     fmt.Sprintf("Status: %s", status),
		HTTPStatus: http.StatusBadRequest,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, InvalidStopStatusType:
		return http.StatusBadRequest
	case NotFoundError, TripProgressNotFound, StopNotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	case DatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
