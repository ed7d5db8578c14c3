package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeUpstream indicates an upstream provider error (5xx, network)
	ErrorTypeUpstream ErrorType = "upstream_error"
	// ErrorTypeRateLimit indicates the upstream rate-limited us (429)
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeInvalidRequest indicates a client error (bad ticker/params)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeAuthentication indicates a missing or rejected credential
	ErrorTypeAuthentication ErrorType = "authentication_error"
	// ErrorTypeNotFound indicates an unknown symbol
	ErrorTypeNotFound ErrorType = "not_found_error"
)

// MarketError is the base error type for all gateway errors
type MarketError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   string    `json:"provider,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *MarketError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *MarketError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *MarketError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map
func (e *MarketError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// NewUpstreamError creates a new upstream error (network failure, upstream 5xx)
func NewUpstreamError(provider string, statusCode int, message string, err error) *MarketError {
	return &MarketError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: statusCode,
		Provider:   provider,
		Err:        err,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(provider string, message string) *MarketError {
	return &MarketError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Provider:   provider,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *MarketError {
	return &MarketError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewAuthenticationError creates a new authentication error (401).
// Used both for credentials the upstream rejected and for a selected
// provider whose required key is absent from configuration.
func NewAuthenticationError(provider string, message string) *MarketError {
	return &MarketError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Provider:   provider,
	}
}

// NewNotFoundError creates a new not found error (unknown symbol)
func NewNotFoundError(provider string, message string) *MarketError {
	return &MarketError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Provider:   provider,
	}
}

// upstreamMessagePaths are the JSON paths where the supported upstreams
// put their human-readable error message. Checked in order.
var upstreamMessagePaths = []string{
	"error.message",
	"Error Message",
	"chart.error.description",
	"message",
	"errors",
}

// ParseUpstreamError parses an error response from an upstream and returns
// an appropriate MarketError. Upstreams disagree wildly about error body
// shapes, so the message is probed with gjson rather than typed structs.
func ParseUpstreamError(provider string, statusCode int, body []byte, originalErr error) *MarketError {
	message := strings.TrimSpace(string(body))
	for _, path := range upstreamMessagePaths {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			message = v.String()
			break
		}
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthenticationError(provider, message)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(provider, message)
	case statusCode == http.StatusNotFound:
		return NewNotFoundError(provider, message)
	case statusCode >= 400 && statusCode < 500:
		err := NewInvalidRequestError(message, originalErr)
		err.StatusCode = statusCode
		err.Provider = provider
		return err
	default:
		return NewUpstreamError(provider, http.StatusBadGateway, message, originalErr)
	}
}
