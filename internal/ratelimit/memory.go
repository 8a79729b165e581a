package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps per-address timestamps in process memory. State is
// lost on restart and is not shared between instances.
type MemoryLimiter struct {
	config Config
	mu     sync.Mutex
	hits   map[string][]int64
}

// NewMemoryLimiter creates a new in-memory sliding window limiter
func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config: config.withDefaults(),
		hits:   make(map[string][]int64),
	}
}

// Allow prunes expired timestamps for address and admits the attempt when
// fewer than MaxRequests remain. The whole check holds the lock so that
// concurrent attempts from one address cannot overshoot the limit.
func (l *MemoryLimiter) Allow(_ context.Context, address string, now time.Time) (bool, error) {
	cutoff := l.config.windowStart(now)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := prune(l.hits[address], cutoff)
	if len(recent) >= l.config.MaxRequests {
		l.hits[address] = recent
		return false, nil
	}

	l.hits[address] = append(recent, now.UnixMilli())
	return true, nil
}

// Sweep removes addresses whose timestamps have all expired
func (l *MemoryLimiter) Sweep(_ context.Context, now time.Time) (int64, error) {
	cutoff := l.config.windowStart(now)

	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int64
	for address, stamps := range l.hits {
		recent := prune(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.hits, address)
			removed++
			continue
		}
		l.hits[address] = recent
	}
	return removed, nil
}

// Len returns the number of tracked addresses
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// prune keeps timestamps newer than cutoff, reusing the backing array.
func prune(stamps []int64, cutoff int64) []int64 {
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	return kept
}
