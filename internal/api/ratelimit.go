package api

import (
	"context"
	"sync"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/config"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"

	"github.com/rs/zerolog"
)

// RateLimiter paces outbound calls to one every interval. A single instance
// is shared by every caller that must respect the same upstream quota, so
// the ceiling holds across concurrent ingestion runs. Ordering between
// callers is first come, first served; no caller is guaranteed a share.
type RateLimiter struct {
	interval time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu   sync.Mutex
	last time.Time // issue time of the most recently permitted call
}

func NewRateLimiter(budget int, window time.Duration, m *metrics.Metrics, logger zerolog.Logger) *RateLimiter {
	if budget <= 0 {
		budget = 1
	}
	return &RateLimiter{
		interval: window / time.Duration(budget),
		metrics:  m,
		logger:   logger,
	}
}

func NewRateLimiterFromConfig(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *RateLimiter {
	return NewRateLimiter(cfg.RequestBudget, cfg.RateWindow, m, logger)
}

func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}

// Acquire blocks until the caller may issue its request. The slot is
// reserved under the lock, so "last" records when the call will actually go
// out rather than when Acquire was entered. The only error is ctx ending
// while waiting.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	issueAt := now
	if !r.last.IsZero() {
		if earliest := r.last.Add(r.interval); earliest.After(now) {
			issueAt = earliest
		}
	}
	r.last = issueAt
	r.mu.Unlock()

	wait := issueAt.Sub(now)
	r.metrics.ObserveLimiterWait(wait)
	if wait <= 0 {
		return nil
	}

	r.logger.Debug().Dur("wait", wait).Msg("pacing upstream request")
	return sleepCtx(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
