// Package types holds the wire envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful response payloads.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps failed response payloads.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
