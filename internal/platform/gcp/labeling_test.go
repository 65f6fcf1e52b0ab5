package gcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

func TestRetryTransientRetriesUnavailable(t *testing.T) {
	var slept []time.Duration
	sleep := func(d time.Duration) { slept = append(slept, d) }
	calls := 0
	got, err := retryTransient(context.Background(), logger.Nop(), "test", 3, sleep, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, status.Error(codes.Unavailable, "try later")
		}
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("retryTransient: want=7 got=%d err=%v", got, err)
	}
	if len(slept) != 2 || slept[1] != 2*slept[0] {
		t.Fatalf("backoff: want doubling got=%v", slept)
	}
}

func TestRetryTransientStopsOnPermanentError(t *testing.T) {
	perm := status.Error(codes.InvalidArgument, "bad uri")
	calls := 0
	_, err := retryTransient(context.Background(), logger.Nop(), "test", 3, func(time.Duration) {}, func() (string, error) {
		calls++
		return "", perm
	})
	if !errors.Is(err, perm) || calls != 1 {
		t.Fatalf("permanent error: calls=%d err=%v", calls, err)
	}
}

func TestRetryTransientGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	_, err := retryTransient(context.Background(), logger.Nop(), "test", 2, func(time.Duration) {}, func() (string, error) {
		calls++
		return "", status.Error(codes.ResourceExhausted, "quota")
	})
	if status.Code(err) != codes.ResourceExhausted || calls != 3 {
		t.Fatalf("exhausted: calls=%d err=%v", calls, err)
	}
}

func TestRetryTransientHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := retryTransient(ctx, logger.Nop(), "test", 3, func(time.Duration) {}, func() (int, error) {
		t.Fatalf("fn called after cancel")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled: want=%v got=%v", context.Canceled, err)
	}
}

func TestRankLabels(t *testing.T) {
	got := rankLabels([]Label{
		{Name: "Fire", Score: 0.5},
		{Name: "smoke", Score: 0.8},
		{Name: "fire ", Score: 0.6},
		{Name: "Dust", Score: 0.1},
		{Name: "", Score: 0.9},
	}, 0.3)
	if len(got) != 2 || got[0].Name != "smoke" || got[1].Score != 0.6 {
		t.Fatalf("rank: got=%+v", got)
	}
}

func TestLabelConfigFromEnv(t *testing.T) {
	t.Setenv("VIDEO_LABEL_TIMEOUT", "2m")
	t.Setenv("LABEL_MAX_RETRIES", "-3")
	t.Setenv("LABEL_MIN_SCORE_PCT", "55")
	cfg := LabelConfigFromEnv()
	if cfg.VideoTimeout != 2*time.Minute {
		t.Fatalf("video timeout: want=%v got=%v", 2*time.Minute, cfg.VideoTimeout)
	}
	if cfg.MaxRetries != 0 {
		t.Fatalf("max retries: want=0 got=%d", cfg.MaxRetries)
	}
	if cfg.MinScore != 0.55 {
		t.Fatalf("min score: want=0.55 got=%v", cfg.MinScore)
	}
}
