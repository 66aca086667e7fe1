// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestBreaker(clock *fakeClock) *CircuitBreaker {
	cfg := DefaultCircuitBreakerConfig("openai")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute
	cfg.now = clock.now
	return NewCircuitBreaker(cfg)
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newTestBreaker(clock)
	fail := func(context.Context) error { return NewTransientError("down", nil) }
	ok := func(context.Context) error { return nil }

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want OPEN", cb.State())
	}

	calls := 0
	err := cb.Execute(context.Background(), func(context.Context) error { calls++; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 0 {
		t.Error("open breaker must not call through")
	}
	if IsRetryable(err) {
		t.Error("open breaker error should not be retried")
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if err := cb.Execute(context.Background(), ok); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("state = %v, want CLOSED", cb.State())
	}
}

func TestCircuitBreakerIgnoresPermanentErrors(t *testing.T) {
	cb := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})
	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func(context.Context) error { return NewPermanentError("bad key", nil) })
	}
	if cb.State() != StateClosed {
		t.Errorf("state = %v, want CLOSED", cb.State())
	}
}

func TestRetryWithCircuitBreaker(t *testing.T) {
	cb := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})
	calls := 0
	_, err := RetryWithCircuitBreaker(context.Background(), fastConfig(5), cb, func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError("down", nil)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected breaker to stop after 2 calls, got %d", calls)
	}
}
