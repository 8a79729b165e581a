package server

import (
	"context"
	"fmt"
	"time"

	"github.com/layer10security/formrelay/internal/config"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/ratelimit"
	"github.com/layer10security/formrelay/internal/tasks"
	"github.com/layer10security/formrelay/internal/telemetry"
	"github.com/layer10security/formrelay/internal/version"
)

// Run wires tracing, the rate limit store and its sweep task, then serves
// until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := logging.GetGlobalLogger()

	shutdownTracing, err := telemetry.InitTracing(ctx, ServiceName, version.Version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()
	if cfg.OTLPEndpoint != "" {
		logger.Info("Exporting traces to %s", cfg.OTLPEndpoint)
	}

	limiter, closeLimiter, err := BuildLimiter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limit store: %w", err)
	}
	defer func() {
		if err := closeLimiter(); err != nil {
			logger.Warn("Failed to close rate limit store: %v", err)
		}
	}()
	logger.Info("Using %s rate limit store (%d per %s)", cfg.RateLimitStore, cfg.RateLimitMax, cfg.RateLimitWindow)

	if sweeper, ok := limiter.(ratelimit.Sweeper); ok {
		tasks.NewLimiterSweep(sweeper, tasks.DefaultSweepInterval).Start(ctx)
		logger.Info("Started rate limit sweep task")
	}

	if cfg.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY not configured, notifications are disabled")
	}

	srv := NewServer(cfg, Options{Limiter: limiter})
	return srv.Start(ctx)
}
