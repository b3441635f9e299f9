package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerTransitions(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      10 * time.Second,
		HalfOpenMaxReq:   1,
	})

	now := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker rejected request: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after one failure = %s, want closed", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("state after threshold failures = %s, want open", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker allowed request: %v", err)
	}

	now = now.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open probe rejected: %v", err)
	}
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after half-open success = %s, want closed", state)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})

	now := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open probe rejected: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("state after half-open failure = %s, want open", state)
	}
}
