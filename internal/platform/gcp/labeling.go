package gcp

import (
	"context"
	"sort"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/framevault-backend/internal/platform/envutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// Label is a detected concept with the provider's confidence in [0,1].
type Label struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Source   string  `json:"source"`
	StartSec float64 `json:"startSec,omitempty"`
	EndSec   float64 `json:"endSec,omitempty"`
}

const (
	LabelSourceVision = "gcp_vision"
	LabelSourceVideo  = "gcp_videointelligence"
)

// LabelConfig tunes the Vision and Video Intelligence calls behind tag suggestions.
type LabelConfig struct {
	ImageTimeout time.Duration
	// VideoTimeout bounds the whole long-running annotate operation.
	VideoTimeout time.Duration
	MaxRetries   int
	// MinScore drops labels the provider is less sure of.
	MinScore float64
}

func LabelConfigFromEnv() LabelConfig {
	cfg := LabelConfig{
		ImageTimeout: envutil.Duration("VISION_TIMEOUT", 45*time.Second),
		VideoTimeout: envutil.Duration("VIDEO_LABEL_TIMEOUT", 15*time.Minute),
		MaxRetries:   envutil.Int("LABEL_MAX_RETRIES", 4),
	}
	if pct := envutil.Int("LABEL_MIN_SCORE_PCT", 30); pct > 0 && pct <= 100 {
		cfg.MinScore = float64(pct) / 100
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return cfg
}

func isTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	}
	return false
}

// retryTransient calls fn until it succeeds, fails permanently, or maxRetries
// retries are spent. Backoff doubles from 750ms up to 10s.
func retryTransient[T any](ctx context.Context, log *logger.Logger, op string, maxRetries int, sleep func(time.Duration), fn func() (T, error)) (T, error) {
	var zero T
	backoff := 750 * time.Millisecond
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if !isTransient(err) || attempt >= maxRetries {
			return zero, err
		}
		log.Warn("transient labeling error; retrying", "op", op, "attempt", attempt+1, "error", err)
		sleep(backoff)
		backoff = min(backoff*2, 10*time.Second)
	}
}

// rankLabels drops blank or low-confidence labels, keeps the best entry per
// case-insensitive name, and orders by score.
func rankLabels(in []Label, minScore float64) []Label {
	best := map[string]int{}
	out := make([]Label, 0, len(in))
	for _, l := range in {
		if strings.TrimSpace(l.Name) == "" || l.Score < minScore {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(l.Name))
		if i, ok := best[key]; ok {
			if l.Score > out[i].Score {
				out[i] = l
			}
			continue
		}
		best[key] = len(out)
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
