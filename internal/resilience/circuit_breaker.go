// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed   CircuitBreakerState = iota // Normal operation
	StateOpen                                // Failing fast
	StateHalfOpen                            // Testing if service recovered
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Name             string                                          // Provider name used in messages
	FailureThreshold int                                             // Consecutive failures before opening
	SuccessThreshold int                                             // Successes needed to close from half-open
	Timeout          time.Duration                                   // How long to stay open before probing
	IsFailure        func(error) bool                                // Which errors count as failures
	OnStateChange    func(name string, from, to CircuitBreakerState) // State change callback
	now              func() time.Time
}

// DefaultCircuitBreakerConfig returns sensible defaults. Only retryable
// errors trip the breaker; a bad API key should not hide behind an open
// circuit.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Timeout:          30 * time.Second,
		IsFailure:        IsRetryable,
	}
}

// CircuitBreaker stops calling a provider that keeps failing
type CircuitBreaker struct {
	config CircuitBreakerConfig
	mu     sync.Mutex

	state           CircuitBreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.IsFailure == nil {
		config.IsFailure = IsRetryable
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &CircuitBreaker{config: config, state: StateClosed}
}

// ErrCircuitOpen is wrapped by every error returned for a rejected call
var ErrCircuitOpen = errors.New("circuit breaker open")

// Execute runs fn unless the breaker is open
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.afterRequest(err)
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	since := cb.config.now().Sub(cb.lastFailureTime)
	if since >= cb.config.Timeout {
		cb.setState(StateHalfOpen)
		return nil
	}
	// not retryable: the open breaker ends the retry loop
	return NewPermanentError(
		fmt.Sprintf("%s: %v after %d failures (retry in %v)", cb.config.Name, ErrCircuitOpen, cb.failureCount, (cb.config.Timeout - since).Round(time.Second)),
		ErrCircuitOpen,
	)
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && cb.config.IsFailure(err) {
		cb.failureCount++
		cb.lastFailureTime = cb.config.now()
		if cb.state == StateHalfOpen || cb.failureCount >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

func (cb *CircuitBreaker) setState(newState CircuitBreakerState) {
	if cb.state == newState {
		return
	}
	oldState := cb.state
	cb.state = newState
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, oldState, newState)
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
