package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFor(t *testing.T) {
	t.Run("non-positive duration returns immediately", func(t *testing.T) {
		called := false
		original := after
		after = func(time.Duration) <-chan time.Time {
			called = true
			return nil
		}
		defer func() { after = original }()

		if err := WaitFor(context.Background(), 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if called {
			t.Fatalf("expected no timer for zero duration")
		}
	})

	t.Run("waits for the timer", func(t *testing.T) {
		var requested time.Duration
		original := after
		after = func(d time.Duration) <-chan time.Time {
			requested = d
			ch := make(chan time.Time, 1)
			ch <- time.Now()
			return ch
		}
		defer func() { after = original }()

		if err := WaitFor(context.Background(), 1500*time.Millisecond); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if requested != 1500*time.Millisecond {
			t.Fatalf("unexpected duration: %v", requested)
		}
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		original := after
		after = func(time.Duration) <-chan time.Time { return make(chan time.Time) }
		defer func() { after = original }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WaitFor(ctx, time.Hour)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
