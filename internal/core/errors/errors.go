package errors

const (
	HttpInternalError    = "internal_error"
	HttpInvalidJsonError = "invalid_json"
	HttpValidationError  = "validation_failed"
	HttpNotFoundError    = "not_found"
	HttpDuplicateError   = "duplicate_entry"
)

// ErrorResponse is the error response body for all API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
