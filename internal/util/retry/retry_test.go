package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got: %d", attempts)
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithInitialDelay(time.Millisecond))
	if err != nil {
		t.Errorf("expected success after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return errors.New("persistent")
	}, WithMaxAttempts(3), WithInitialDelay(time.Millisecond))
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_FatalStopsRetrying(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return Fatal(errors.New("bad parameter"))
	}, WithInitialDelay(time.Millisecond))
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("expected fatal error to stop after 1 attempt, got: %d", attempts)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, func() error {
		attempts++
		return errors.New("transient")
	}, WithInitialDelay(time.Hour))
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got: %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()
	if IsFatal(errors.New("plain")) {
		t.Error("plain error must not be fatal")
	}
	if !IsFatal(Fatal(errors.New("wrapped"))) {
		t.Error("Fatal-wrapped error must be fatal")
	}
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) must be nil")
	}
}
