// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ProviderError is a classified failure from a routing or geocoding
// provider.
type ProviderError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies provider failures.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit means the provider throttled the request.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded means the quota ran out or access was denied.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout is a connection or deadline timeout.
	ErrorTypeTimeout
	// ErrorTypeNotFound means the place or route does not exist.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest means the provider rejected the request.
	ErrorTypeInvalidRequest
	// ErrorTypeNetwork is a transport-level failure.
	ErrorTypeNetwork
)

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNotFoundError reports whether the error means the place or route
// does not exist, as opposed to a transient provider failure.
func IsNotFoundError(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ErrorTypeNotFound
	}

	return false
}

// IsRateLimitError reports whether the error is a throttling response.
func IsRateLimitError(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ErrorTypeRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsTimeoutError reports whether the error is a timeout.
func IsTimeoutError(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ErrorTypeTimeout
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// ClassifyHTTPError maps an HTTP status code to a provider error.
func ClassifyHTTPError(statusCode int) *ProviderError {
	switch statusCode {
	case http.StatusTooManyRequests:
		return &ProviderError{
			Type:    ErrorTypeRateLimit,
			Message: "rate limit reached",
		}
	case http.StatusForbidden:
		return &ProviderError{
			Type:    ErrorTypeQuotaExceeded,
			Message: "quota exceeded or access denied",
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Type:    ErrorTypeInvalidRequest,
			Message: "invalid request",
		}
	case http.StatusNotFound:
		return &ProviderError{
			Type:    ErrorTypeNotFound,
			Message: "not found",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &ProviderError{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("service unavailable (status %d)", statusCode),
		}
	default:
		return &ProviderError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("HTTP error %d", statusCode),
		}
	}
}

// ClassifyProviderStatus maps a Google Maps API status field to a
// provider error. OK must be handled by the caller before classifying.
func ClassifyProviderStatus(status string) *ProviderError {
	switch status {
	case "ZERO_RESULTS", "NOT_FOUND":
		return &ProviderError{
			Type:    ErrorTypeNotFound,
			Message: "no results",
		}
	case "OVER_QUERY_LIMIT":
		return &ProviderError{
			Type:    ErrorTypeRateLimit,
			Message: "query limit exceeded",
		}
	case "OVER_DAILY_LIMIT", "REQUEST_DENIED":
		return &ProviderError{
			Type:    ErrorTypeQuotaExceeded,
			Message: fmt.Sprintf("request rejected: %s", status),
		}
	case "INVALID_REQUEST", "MAX_WAYPOINTS_EXCEEDED", "MAX_ROUTE_LENGTH_EXCEEDED":
		return &ProviderError{
			Type:    ErrorTypeInvalidRequest,
			Message: fmt.Sprintf("invalid request: %s", status),
		}
	default:
		return &ProviderError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("provider status: %s", status),
		}
	}
}
