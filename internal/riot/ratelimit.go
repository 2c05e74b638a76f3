package riot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// rateLimiter tracks request times in a 1s and a 2min sliding window.
type rateLimiter struct {
	mu        sync.Mutex
	perSecond int
	per2Min   int
	short     []time.Time
	long      []time.Time
	now       func() time.Time
}

func newRateLimiter(perSecond, per2Min int) *rateLimiter {
	return &rateLimiter{perSecond: perSecond, per2Min: per2Min, now: time.Now}
}

// wait blocks until a request fits both windows, then records it.
func (r *rateLimiter) wait(ctx context.Context, logger *slog.Logger) error {
	for {
		d := r.reserve()
		if d <= 0 {
			return nil
		}
		logger.Debug("riot rate limit wait", slog.Duration("wait", d))
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
}

// reserve records a request and returns 0 if one is allowed now, otherwise
// how long to wait before trying again.
func (r *rateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.short = prune(r.short, now.Add(-time.Second))
	r.long = prune(r.long, now.Add(-2*time.Minute))

	if r.perSecond > 0 && len(r.short) >= r.perSecond {
		return r.short[0].Add(time.Second).Sub(now) + 50*time.Millisecond
	}
	if r.per2Min > 0 && len(r.long) >= r.per2Min {
		return r.long[0].Add(2*time.Minute).Sub(now) + 50*time.Millisecond
	}

	r.short = append(r.short, now)
	r.long = append(r.long, now)
	return 0
}

// prune drops timestamps at or before cutoff. Input is ordered.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}
