package tasks

import (
	"context"
	"time"

	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/ratelimit"
)

// DefaultSweepInterval is how often expired rate limit entries are dropped
const DefaultSweepInterval = 5 * time.Minute

// LimiterSweep handles periodic cleaning of expired rate limit entries
type LimiterSweep struct {
	sweeper  ratelimit.Sweeper
	interval time.Duration
	now      func() time.Time
}

// NewLimiterSweep creates a new sweep task
func NewLimiterSweep(sweeper ratelimit.Sweeper, interval time.Duration) *LimiterSweep {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &LimiterSweep{
		sweeper:  sweeper,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the sweep task in the background until ctx is done
func (ls *LimiterSweep) Start(ctx context.Context) {
	go ls.runPeriodically(ctx)
}

// runPeriodically runs the sweep at regular intervals
func (ls *LimiterSweep) runPeriodically(ctx context.Context) {
	ticker := time.NewTicker(ls.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ls.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns the number of dropped entries
func (ls *LimiterSweep) RunOnce(ctx context.Context) int64 {
	logger := logging.GetGlobalLogger()

	removed, err := ls.sweeper.Sweep(ctx, ls.now())
	if err != nil {
		logger.Error("Rate limit sweep failed: %v", err)
		return 0
	}
	if removed > 0 {
		logger.Debug("Rate limit sweep dropped %d entries", removed)
	}
	return removed
}
