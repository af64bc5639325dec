package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes problem with the problem+json content type. A set
// RetryAfter is mirrored in the Retry-After header.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	c.JSON(problem.Status, problem)
}

// AbortWithProblem writes problem and stops the handler chain.
func AbortWithProblem(c *gin.Context, problem *ProblemDetails) {
	WriteProblem(c, problem)
	c.Abort()
}

// GetRequestID returns the request id set by the request-id middleware,
// falling back to the inbound header.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return c.GetHeader("X-Request-ID")
}

const checkInput = "Please check your input and try again"

// newProblem fills the members every constructor shares.
func newProblem(typ, title string, status int, requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        typ,
		Title:       title,
		Status:      status,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}

// NewValidationError creates a 400 listing every field that failed.
func NewValidationError(requestID string, fields []FieldError) *ProblemDetails {
	p := newProblem(TypeValidation, TitleValidation, http.StatusBadRequest, requestID,
		"One or more fields failed validation", checkInput)
	p.Errors = fields
	return p
}

// NewValidationDetail creates a 400 for a rule checked outside the binding
// layer, such as a future completion date.
func NewValidationDetail(requestID, detail string) *ProblemDetails {
	return newProblem(TypeValidation, TitleValidation, http.StatusBadRequest, requestID, detail, checkInput)
}

// NewBindingError converts a gin binding error. Validator failures become
// one FieldError per field; anything else is a malformed body.
func NewBindingError(requestID string, err error) *ProblemDetails {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewBadRequestError(requestID, err.Error(), "Invalid request format")
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   snakeCase(fe.Field()),
			Message: validationMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return NewValidationError(requestID, fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "dive", "gte", "lte":
		return fmt.Sprintf("is out of range (%s %s)", fe.Tag(), fe.Param())
	default:
		return "is invalid"
	}
}

// snakeCase maps a Go field name such as TargetValue to target_value.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewBadRequestError creates a 400 for a body or query that could not be read.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return newProblem(TypeBadRequest, TitleBadRequest, http.StatusBadRequest, requestID, detail, userMessage)
}

// NewInvalidUUIDError creates a 400 for a malformed path or body id.
func NewInvalidUUIDError(requestID, field, value string) *ProblemDetails {
	p := newProblem(TypeInvalidUUID, TitleInvalidUUID, http.StatusBadRequest, requestID,
		fmt.Sprintf("%s %q is not a UUID", field, value), "Invalid identifier format")
	p.Errors = []FieldError{{Field: field, Message: "must be a valid UUIDv7", Code: "invalid_uuid"}}
	return p
}

// NewNotFoundError creates a 404. Missing and foreign-owned resources share it.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	return newProblem(TypeNotFound, TitleNotFound, http.StatusNotFound, requestID,
		fmt.Sprintf("%s %s was not found", resource, id),
		fmt.Sprintf("The requested %s could not be found", resource))
}

// NewConflictError creates a 409 for a write that lost a race. The client
// may retry after ConflictRetryAfter seconds.
func NewConflictError(requestID, detail string) *ProblemDetails {
	p := newProblem(TypeConflict, TitleConflict, http.StatusConflict, requestID, detail,
		"This item changed while you were saving. Please try again.")
	retry := ConflictRetryAfter
	p.RetryAfter = &retry
	return p
}

func NewUnauthorizedError(requestID string) *ProblemDetails {
	return newProblem(TypeUnauthorized, TitleUnauthorized, http.StatusUnauthorized, requestID,
		"A valid bearer token is required", "Please sign in to continue")
}

// NewRateLimitError creates a 429; retryAfter is in seconds.
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	p := newProblem(TypeRateLimit, TitleRateLimit, http.StatusTooManyRequests, requestID,
		fmt.Sprintf("Request limit reached, retry in %d seconds", retryAfter),
		"Too many requests. Please wait before trying again.")
	p.RetryAfter = &retryAfter
	return p
}

// NewInternalError creates a 500. The cause is logged, never returned.
func NewInternalError(requestID string) *ProblemDetails {
	return newProblem(TypeInternal, TitleInternal, http.StatusInternalServerError, requestID,
		"An unexpected error occurred", "Something went wrong. Please try again later.")
}
