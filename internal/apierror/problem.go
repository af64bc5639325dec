// Package apierror provides RFC 9457 Problem Details responses for the
// habitual API.
package apierror

// ProblemDetails represents an RFC 9457 Problem Details response.
// See https://www.rfc-editor.org/rfc/rfc9457.html
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	RequestID   string       `json:"request_id,omitempty"`   // from X-Request-ID
	UserMessage string       `json:"user_message,omitempty"` // safe to show in a UI
	RetryAfter  *int         `json:"retry_after,omitempty"`  // seconds, mirrored in the Retry-After header
	Errors      []FieldError `json:"errors,omitempty"`
}

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}
