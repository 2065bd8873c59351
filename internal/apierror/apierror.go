// Package apierror provides the error response envelopes used by every
// handler. All errors returned to clients go through this package so that
// internal details (stack traces, DB errors) never leak.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// PolicyDenial is the envelope for access-policy refusals. Title and Detail
// are user-displayable and stable; the client shows them verbatim in a
// blocking confirmation dialog.
type PolicyDenial struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func NewDenial(title, detail string) *PolicyDenial {
	return &PolicyDenial{Title: title, Detail: detail}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}
