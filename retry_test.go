package agedpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNoRetryByDefault(t *testing.T) {
	p := New(testOptions(1))
	defer p.Stop()

	var attempts atomic.Int32
	boom := errors.New("boom")
	h, err := SubmitResult(p, context.Background(), 1, "once", func(context.Context) (int, error) {
		attempts.Add(1)
		return 0, boom
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, boom) {
		t.Fatalf("wait err = %v; want %v", err, boom)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d; want 1 with the zero retry policy", got)
	}
}

func TestRetryThenSuccess(t *testing.T) {
	opts := testOptions(1)
	opts.Retry = RetryPolicy{Attempts: 3, Initial: 2 * time.Millisecond, Max: 5 * time.Millisecond}
	p := New(opts)
	defer p.Stop()

	var attempts atomic.Int32
	h, err := SubmitResult(p, context.Background(), 1, "flaky", func(context.Context) (string, error) {
		if attempts.Add(1) < 3 {
			return "", errors.New("fail")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if v != "ok" {
		t.Fatalf("result = %q; want \"ok\"", v)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d; want 3", got)
	}
}

func TestRetryExhausted(t *testing.T) {
	opts := testOptions(1)
	opts.Retry = RetryPolicy{Attempts: 3, Initial: 2 * time.Millisecond, Max: 5 * time.Millisecond}
	p := New(opts)
	defer p.Stop()

	var attempts atomic.Int32
	boom := errors.New("boom")
	h, err := SubmitResult(p, context.Background(), 1, "hopeless", func(context.Context) (int, error) {
		attempts.Add(1)
		return 0, boom
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, boom) {
		t.Fatalf("wait err = %v; want final attempt error %v", err, boom)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d; want 3", got)
	}
}

func TestCancelDuringBackoff(t *testing.T) {
	opts := testOptions(1)
	opts.Retry = RetryPolicy{Attempts: 5, Initial: 100 * time.Millisecond, Max: 100 * time.Millisecond}
	p := New(opts)
	defer p.Stop()

	var attempts atomic.Int32
	step := make(chan struct{})
	taskCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := SubmitResult(p, taskCtx, 1, "cancelled", func(context.Context) (int, error) {
		if attempts.Add(1) == 1 {
			close(step)
		}
		return 0, errors.New("boom")
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Wait for the first attempt, then cancel during the backoff sleep.
	select {
	case <-step:
	case <-time.After(time.Second):
		t.Fatal("first attempt did not happen in time")
	}
	cancel()

	ctx, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if _, err := h.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("wait err = %v; want context.Canceled", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts after cancel = %d; want 1", got)
	}
}
