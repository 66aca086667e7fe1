// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // Temporary network issues
	ErrorTypePermanent                    // Invalid credentials, permissions
	ErrorTypeTimeout                      // Request timeouts
	ErrorTypeRateLimit                    // Provider rate limiting
	ErrorTypeQuotaExceeded                // Billing or token quota exhausted
	ErrorTypeServiceUnavailable           // Provider downtime
	ErrorTypeInvalidInput                 // Rejected prompt or parameters
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeQuotaExceeded:
		return "QuotaExceeded"
	case ErrorTypeServiceUnavailable:
		return "ServiceUnavailable"
	case ErrorTypeInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original   error
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Original != nil {
		return e.Original.Error()
	}
	return e.Type.String()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// ClassifyHTTPStatus turns a non-2xx provider response into a classified
// error. It returns nil for 2xx.
func ClassifyHTTPStatus(provider string, status int, body string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	body = strings.TrimSpace(body)
	if len(body) > 300 {
		body = body[:300]
	}
	msg := fmt.Sprintf("%s status %d: %s", provider, status, body)

	ce := &ClassifiedError{Message: msg, StatusCode: status}
	lower := strings.ToLower(body)
	switch {
	case status == http.StatusTooManyRequests && strings.Contains(lower, "quota"):
		ce.Type = ErrorTypeQuotaExceeded
	case status == http.StatusTooManyRequests:
		ce.Type, ce.Retryable = ErrorTypeRateLimit, true
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		ce.Type, ce.Retryable = ErrorTypeTimeout, true
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		ce.Type = ErrorTypePermanent
	case status >= 500:
		ce.Type, ce.Retryable = ErrorTypeServiceUnavailable, true
	case status >= 400:
		ce.Type = ErrorTypeInvalidInput
	default:
		ce.Type = ErrorTypeUnknown
	}
	return ce
}

// ClassifyError categorizes an error for appropriate handling
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if isTimeoutError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTimeout,
			Message:   fmt.Sprintf("Timeout error: %v", err),
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("Network error: %v", err),
			Retryable: true,
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "resource exhausted"):
		return &ClassifiedError{Original: err, Type: ErrorTypeRateLimit, Message: fmt.Sprintf("Rate limit exceeded: %v", err), Retryable: true}

	case strings.Contains(errStr, "service unavailable") || strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "overloaded"):
		return &ClassifiedError{Original: err, Type: ErrorTypeServiceUnavailable, Message: fmt.Sprintf("Service unavailable: %v", err), Retryable: true}

	case strings.Contains(errStr, "quota"):
		return &ClassifiedError{Original: err, Type: ErrorTypeQuotaExceeded, Message: fmt.Sprintf("Quota exceeded: %v", err)}

	case strings.Contains(errStr, "api key") || strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "forbidden"):
		return &ClassifiedError{Original: err, Type: ErrorTypePermanent, Message: fmt.Sprintf("Authentication/authorization error: %v", err)}

	case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad request"):
		return &ClassifiedError{Original: err, Type: ErrorTypeInvalidInput, Message: fmt.Sprintf("Invalid input: %v", err)}
	}

	return &ClassifiedError{
		Original: err,
		Type:     ErrorTypeUnknown,
		Message:  fmt.Sprintf("Unknown error: %v", err),
	}
}

// IsRetryable reports whether an error should be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}
