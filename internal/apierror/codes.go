package apierror

// Problem type URIs, used as the "type" member of a problem document.
const (
	TypeValidation   = "urn:habitual:error:validation"
	TypeBadRequest   = "urn:habitual:error:bad_request"
	TypeInvalidUUID  = "urn:habitual:error:invalid_uuid"
	TypeNotFound     = "urn:habitual:error:not_found"
	TypeConflict     = "urn:habitual:error:conflict"
	TypeUnauthorized = "urn:habitual:error:unauthorized"
	TypeRateLimit    = "urn:habitual:error:rate_limit"
	TypeInternal     = "urn:habitual:error:internal"
)

// Titles for each problem type
const (
	TitleValidation   = "Validation Error"
	TitleBadRequest   = "Bad Request"
	TitleInvalidUUID  = "Invalid UUID Format"
	TitleNotFound     = "Resource Not Found"
	TitleConflict     = "Resource Conflict"
	TitleUnauthorized = "Authentication Required"
	TitleRateLimit    = "Rate Limit Exceeded"
	TitleInternal     = "Internal Server Error"
)

// ConflictRetryAfter is the retry hint, in seconds, sent with a 409 caused
// by a concurrent write.
const ConflictRetryAfter = 1
