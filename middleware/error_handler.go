package middleware

import (
	"fmt"
	"net/http"

	"github.com/RoamLine/trip-progress-engine/errors"
	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the gin context into the
// standard response envelope. AppErrors keep their code and status;
// anything else becomes a sanitized 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		requestID := c.GetString(RequestIDKey)

		var errorInfo *types.ErrorInfo
		var statusCode int

		if appError, ok := err.(*errors.AppError); ok {
			statusCode = appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			errorInfo = &types.ErrorInfo{
				Code:    mapErrorTypeToCode(appError.Type),
				Message: appError.Message,
				TraceID: requestID,
			}
			if appError.Detail != "" {
				errorInfo.Details = map[string]interface{}{"detail": appError.Detail}
			}
		} else {
			statusCode = http.StatusInternalServerError
			logger.LogHTTPError(c, err, statusCode, "Unhandled error")

			errorInfo = &types.ErrorInfo{
				Code:    types.ErrCodeInternalError,
				Message: "Internal server error",
				TraceID: requestID,
			}
		}

		c.JSON(statusCode, types.StandardResponse{
			Success: false,
			Error:   errorInfo,
			Meta: &types.MetaInfo{
				RequestID: requestID,
			},
		})
	}
}

// mapErrorTypeToCode maps generic error types to response error codes.
// Domain-specific types are already machine-readable codes and pass
// through unchanged.
func mapErrorTypeToCode(errorType errors.ErrorType) string {
	switch errorType {
	case errors.ValidationError:
		return types.ErrCodeValidationFailed
	case errors.NotFoundError:
		return types.ErrCodeNotFound
	case errors.ConflictError:
		return types.ErrCodeConflict
	case errors.DatabaseError:
		return types.ErrCodeDatabaseError
	case errors.ServerError:
		return types.ErrCodeInternalError
	default:
		return string(errorType)
	}
}
