// Package handlers exposes the services over gin.
package handlers

import (
	"errors"
	"time"

	"github.com/JonnyWalker81/habitual/internal/apierror"
	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/middleware"
	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
)

// userID returns the authenticated user, writing a 401 when absent.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.UserIDKey)
	if id == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return id, true
}

// pathID reads and validates a UUIDv7 path parameter.
func pathID(c *gin.Context, param string) (string, bool) {
	id := c.Param(param)
	if err := service.ValidateID(id); err != nil {
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(apierror.GetRequestID(c), param, id))
		return "", false
	}
	return id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := clock.ParseDate(raw)
	if err != nil {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
			{Field: key, Message: "must be a date in YYYY-MM-DD format", Code: "invalid_format"},
		}))
		return nil, false
	}
	return &d, true
}

// bindJSON binds the request body, writing a problem on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apierror.WriteProblem(c, apierror.NewBindingError(apierror.GetRequestID(c), err))
		return false
	}
	return true
}

// handleServiceError maps service errors to problem responses. resource and
// id describe the entity for 404s.
func handleServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, service.ErrInvalidID):
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, "id", id))
	case errors.Is(err, service.ErrValidation):
		apierror.WriteProblem(c, apierror.NewValidationDetail(requestID, err.Error()))
	case errors.Is(err, service.ErrConcurrencyConflict):
		logger.Ctx(c.Request.Context()).Warn("concurrent write conflict",
			logger.String("resource", resource), logger.String("id", id))
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, resource+" was modified concurrently"))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed",
			logger.Err(err), logger.String("resource", resource), logger.String("id", id))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
