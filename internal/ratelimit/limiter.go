// Package ratelimit bounds form submissions per client address within a
// trailing time window.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 3
)

// Limiter admits or rejects one attempt from address at time now.
// An admitted attempt is recorded; a rejected one is not.
type Limiter interface {
	Allow(ctx context.Context, address string, now time.Time) (bool, error)
}

// Sweeper drops state that no longer affects any decision.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// Config holds sliding window settings
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultConfig returns the window used by the newsletter form
func DefaultConfig() Config {
	return Config{
		Window:      DefaultWindow,
		MaxRequests: DefaultMaxRequests,
	}
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	return c
}

// windowStart returns the cutoff in ms; timestamps at or before it are expired.
func (c Config) windowStart(now time.Time) int64 {
	return now.Add(-c.Window).UnixMilli()
}
