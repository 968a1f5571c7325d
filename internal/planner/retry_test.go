package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/genai"

	errx "github.com/yatrika/server/internal/core/error"
)

func rateLimitErr() error {
	return genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}
}

func TestRetryRecoversFromRateLimit(t *testing.T) {
	calls := 0
	out, err := runWithRetry(context.Background(), 3, 0, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", rateLimitErr()
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "recovered" {
		t.Fatalf("unexpected output: %s", out)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryTerminalErrorStopsImmediately(t *testing.T) {
	calls := 0
	start := time.Now()
	_, err := runWithRetry(context.Background(), 3, 2*time.Second, func(ctx context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("schema drift")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("terminal failure must not sleep, took %v", elapsed)
	}
	if errx.KindOf(err) == errx.KindRateLimited {
		t.Fatal("terminal error must not be classified retryable")
	}
}

func TestRetryExhaustionReturnsBusy(t *testing.T) {
	calls := 0
	_, err := runWithRetry(context.Background(), 3, 0, func(ctx context.Context) (string, error) {
		calls++
		return "", rateLimitErr()
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	var appErr *errx.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Message != errx.BusyMessage {
		t.Fatalf("unexpected message: %s", appErr.Message)
	}
}

func TestRetryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runWithRetry(ctx, 3, time.Minute, func(ctx context.Context) (string, error) {
		return "", rateLimitErr()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *errx.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Status != 504 {
		t.Fatalf("expected 504, got %d", appErr.Status)
	}
}
