// Package types holds the wire shapes shared by every API response.
package types

// SuccessEnvelope wraps every successful payload under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of a pkg/errors code: the code string, a
// message safe to show callers, and optional per-field details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
