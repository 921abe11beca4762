package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetry_RetriesRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Errorf("Retry() error = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	transient := Retryable(errors.New("still down"))
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return transient
	})

	if !errors.Is(err, transient) {
		t.Errorf("Retry() error = %v, want last transient error", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return Retryable(errors.New("transient"))
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryable_Nil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
}

func TestRetryable_Unwrap(t *testing.T) {
	base := errors.New("base")
	wrapped := Retryable(base)

	if !errors.Is(wrapped, base) {
		t.Error("wrapped error does not unwrap to base")
	}
	var re *RetryableError
	if !errors.As(wrapped, &re) {
		t.Error("wrapped error is not a *RetryableError")
	}
}
