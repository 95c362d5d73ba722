package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

var errTemporary = errors.New("temporary")

func classifyTemporary(delay time.Duration) Classifier {
	return func(err error) (bool, time.Duration) {
		return errors.Is(err, errTemporary), delay
	}
}

func noWait(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestRetrierRetriesTemporaryErrors(t *testing.T) {
	var waits []time.Duration
	r := NewRetrier(3, classifyTemporary(0), zap.NewNop())
	r.Wait = noWait(&waits)

	calls := 0
	out, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errTemporary
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" || calls != 3 {
		t.Fatalf("unexpected result %q after %d calls", out, calls)
	}
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Fatalf("unexpected backoff: %v", waits)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	var waits []time.Duration
	r := NewRetrier(3, classifyTemporary(0), zap.NewNop())
	r.Wait = noWait(&waits)

	permanent := errors.New("bad request")
	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 || len(waits) != 0 {
		t.Fatalf("expected single call without waiting, got %d calls and %v", calls, waits)
	}
}

func TestRetrierGivesUpOnLongDelay(t *testing.T) {
	var waits []time.Duration
	r := NewRetrier(3, classifyTemporary(time.Minute), zap.NewNop())
	r.Wait = noWait(&waits)

	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", errTemporary
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	var waits []time.Duration
	r := NewRetrier(2, classifyTemporary(5*time.Second), zap.NewNop())
	r.Wait = noWait(&waits)

	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", errTemporary
	})
	if !errors.Is(err, errTemporary) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 || len(waits) != 1 || waits[0] != 5*time.Second {
		t.Fatalf("unexpected calls %d, waits %v", calls, waits)
	}
}

func TestParseRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    time.Duration
	}{
		{message: "quota exhausted, retry after 60 seconds", want: time.Minute},
		{message: "Rate limit reached. Please try again in 7.5s.", want: 7500 * time.Millisecond},
		{message: "Please try again in 450ms", want: 450 * time.Millisecond},
		{message: "Please retry in 17.25s.", want: 17250 * time.Millisecond},
		{
			message: "Rate limit reached for model `llama-3.1-8b-instant` on tokens per day (TPD): Limit 500000, Used 499812. Please try again in 2m59.56s.",
			want:    2*time.Minute + 59560*time.Millisecond,
		},
		{message: "Please try again in 1h2m3s.", want: time.Hour + 2*time.Minute + 3*time.Second},
		{message: "try again in 5", want: 5 * time.Second},
		{message: "internal error", want: 0},
	}

	for _, tt := range tests {
		if got := ParseRetryDelay(tt.message); got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.message, tt.want, got)
		}
	}
}
