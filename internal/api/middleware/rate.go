package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/layer10security/formrelay/internal/api/constants"
	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/ratelimit"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for the per-client throttle
type RateLimitConfig struct {
	// Requests per second per client, zero or less disables the throttle
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
	// IdleTTL drops buckets of clients not seen for this long, 10m when zero
	IdleTTL time.Duration
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientBuckets holds one token bucket per client address
type clientBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
}

func (b *clientBuckets) allow(clientIP string, now time.Time) (*rate.Limiter, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= b.idleTTL {
		for ip, bucket := range b.buckets {
			if now.Sub(bucket.lastSeen) >= b.idleTTL {
				delete(b.buckets, ip)
			}
		}
		b.lastSweep = now
	}

	bucket, ok := b.buckets[clientIP]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(b.rps, b.burst)}
		b.buckets[clientIP] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter, bucket.limiter.AllowN(now, 1)
}

func (b *clientBuckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buckets)
}

// RateLimitMiddleware throttles each client address with its own token
// bucket. Preflight requests are never throttled.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return newRateLimitMiddleware(config, newClientBuckets(config))
}

func newClientBuckets(config RateLimitConfig) *clientBuckets {
	idleTTL := config.IdleTTL
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	return &clientBuckets{
		buckets: make(map[string]*clientBucket),
		rps:     rate.Limit(config.RPS),
		burst:   burst,
		idleTTL: idleTTL,
	}
}

func newRateLimitMiddleware(config RateLimitConfig, buckets *clientBuckets) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	limit := strconv.FormatFloat(config.RPS, 'f', -1, 64)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		t := now()
		limiter, allowed := buckets.allow(utils.GetClientIP(c), t)
		if !allowed {
			c.Header("Retry-After", "1")
			utils.HandleAPIError(c, common.ErrRateLimited)
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, limiter.TokensAt(t)))))

		c.Next()
	}
}

// ClientRateLimitConfig defines the per-client sliding window middleware
type ClientRateLimitConfig struct {
	Limiter ratelimit.Limiter
	// RetryAfter is advertised on rejection, normally the window length
	RetryAfter time.Duration
	// Now is the clock, time.Now when nil
	Now func() time.Time
	// Timeout bounds a single limiter call, 2s when zero
	Timeout time.Duration
}

// ClientRateLimit admits a bounded number of submissions per client
// address. A failing store admits the request and logs the error.
func ClientRateLimit(config ClientRateLimitConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	retryAfter := strconv.Itoa(int(math.Ceil(config.RetryAfter.Seconds())))

	return func(c *gin.Context) {
		clientIP := utils.GetClientIP(c)
		c.Set(constants.ContextKeyClientIP, clientIP)

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		allowed, err := config.Limiter.Allow(ctx, clientIP, now())
		cancel()

		if err != nil {
			utils.LogError(limiterStoreError(clientIP, err), "Admitting request")
			c.Next()
			return
		}

		if !allowed {
			logging.GetGlobalLogger().Warn("Rate limited %s on %s", clientIP, c.Request.URL.Path)
			c.Header("Retry-After", retryAfter)
			utils.HandleAPIError(c, common.ErrRateLimited)
			return
		}

		c.Next()
	}
}

// limiterStoreError tags a failed limiter call as a store error
func limiterStoreError(clientIP string, err error) error {
	return logging.WrapError(fmt.Errorf("%w: %w", logging.ErrStore, err), "rate limit check for "+clientIP)
}
