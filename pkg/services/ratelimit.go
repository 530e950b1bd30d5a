// pkg/services/ratelimit.go
package service

import (
	"context"
	"time"

	"agents-registry/config"
	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/sirupsen/logrus"
)

// WindowStore persists fixed-window counters. Bump must be a single atomic
// upsert-and-read; Sweep removes windows older than the cutoff and never
// runs on the request path.
type WindowStore interface {
	Bump(ctx context.Context, identifier, endpoint string, windowStart time.Time, window time.Duration) (uint32, error)
	Sweep(ctx context.Context, cutoff time.Time) (int64, error)
}

// RateLimiter enforces fixed-window request quotas per (identifier, endpoint).
// The hard window boundary is intentional: a burst can land two full quotas
// back to back across a boundary, and downstream behavior depends on that.
type RateLimiter struct {
	store   WindowStore
	config  *config.RateLimitConfig
	log     *utils.Logger
	timeout time.Duration

	// injectable clock for window tests
	now func() time.Time
}

func NewRateLimiter(store WindowStore, cfg *config.RateLimitConfig, log *utils.Logger) *RateLimiter {
	return &RateLimiter{
		store:   store,
		config:  cfg,
		log:     log,
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

// CheckAndIncrement counts the request against its window and decides
// admission. Every request is counted, admitted or not. A store failure is
// resolved locally by the configured fail-open/fail-closed policy and never
// surfaced as an error.
func (l *RateLimiter) CheckAndIncrement(ctx context.Context, identifier, endpoint string) models.Decision {
	limit := l.config.Limit(endpoint)
	window := limit.Window.Duration()
	now := l.now()
	windowStart := models.WindowStart(now, window)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	count, err := l.store.Bump(ctx, identifier, endpoint, windowStart, window)
	if err != nil {
		l.log.WithFunc().WithError(err).WithFields(logrus.Fields{
			"identifier": identifier,
			"endpoint":   endpoint,
			"failOpen":   l.config.FailOpen,
		}).Warn("Rate window store unavailable, applying fail policy")

		if l.config.FailOpen {
			return models.Decision{Allowed: true}
		}
		return models.Decision{
			Allowed:    false,
			RetryAfter: retryAfter(windowStart, window, now),
		}
	}

	decision := models.Decision{
		Allowed:      count <= limit.Quota,
		CurrentCount: count,
	}
	if !decision.Allowed {
		decision.RetryAfter = retryAfter(windowStart, window, now)
		l.log.WithFunc().WithFields(logrus.Fields{
			"identifier": identifier,
			"endpoint":   endpoint,
			"count":      count,
			"quota":      limit.Quota,
		}).Info("Request rejected by rate limit")
	}
	return decision
}

// retryAfter is the time until the current window closes
func retryAfter(windowStart time.Time, window time.Duration, now time.Time) time.Duration {
	remaining := windowStart.Add(window).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RunSweeper deletes expired window rows on a ticker until ctx is done.
// Expired means older than two window lengths of the largest configured
// window, so a row always outlives any in-flight check against it.
func (l *RateLimiter) RunSweeper(ctx context.Context) {
	interval := l.config.SweepInterval.Duration()
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.log.WithFunc().WithField("interval", interval).Info("Rate window sweeper started")

	for {
		select {
		case <-ctx.Done():
			l.log.WithFunc().Info("Rate window sweeper stopped")
			return
		case <-ticker.C:
			l.sweepOnce(ctx)
		}
	}
}

func (l *RateLimiter) sweepOnce(ctx context.Context) {
	cutoff := l.now().Add(-2 * l.maxWindow())

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := l.store.Sweep(sweepCtx, cutoff)
	if err != nil {
		l.log.WithFunc().WithError(err).Warn("Rate window sweep failed")
		return
	}
	if deleted > 0 {
		l.log.WithFunc().WithFields(logrus.Fields{
			"deleted": deleted,
			"cutoff":  cutoff,
		}).Debug("Swept expired rate windows")
	}
}

func (l *RateLimiter) maxWindow() time.Duration {
	max := time.Minute
	for _, lim := range l.config.Endpoints {
		if lim.Window.Duration() > max {
			max = lim.Window.Duration()
		}
	}
	return max
}
