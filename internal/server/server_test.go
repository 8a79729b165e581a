package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/layer10security/formrelay/internal/config"
	"github.com/layer10security/formrelay/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeProvider counts outbound notification calls
type fakeProvider struct {
	*httptest.Server
	calls  atomic.Int32
	status int
}

func newFakeProvider(t *testing.T, status int) *fakeProvider {
	p := &fakeProvider{status: status}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		w.WriteHeader(p.status)
		_, _ = w.Write([]byte(`{"id":"test"}`))
	}))
	t.Cleanup(p.Close)
	return p
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		Context:           "production",
		Port:              "0",
		ResendAPIURL:      "http://127.0.0.1:1/emails",
		NotificationEmail: "ops@example.com",
		NotifyTimeout:     2 * time.Second,
		AllowedOrigins:    append([]string(nil), config.DefaultAllowedOrigins...),
		RateLimitWindow:   60 * time.Second,
		RateLimitMax:      3,
		RateLimitStore:    config.StoreMemory,
		GlobalRPS:         1000,
		GlobalBurst:       1000,
	}
}

func newTestServer(cfg *config.Config, clock *fakeClock) *Server {
	opts := Options{}
	if clock != nil {
		opts.Now = clock.Now
	}
	return NewServer(cfg, opts)
}

func do(s *Server, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

var siteOrigin = map[string]string{"Origin": "https://layer10security.io"}

func formPaths() []string {
	return []string{
		"/api/contact", "/.netlify/functions/contact",
		"/api/early-access", "/.netlify/functions/early-access",
		"/api/newsletter", "/.netlify/functions/newsletter",
	}
}

func TestNonPostMethodsRejected(t *testing.T) {
	s := newTestServer(testConfig(), nil)

	for _, path := range formPaths() {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			w, body := do(s, method, path, "", siteOrigin)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", method, path)
			assert.Equal(t, "Method not allowed", body["error"], "%s %s", method, path)
		}
	}
}

func TestOptionsPreflight(t *testing.T) {
	s := newTestServer(testConfig(), nil)

	for _, path := range formPaths() {
		// No origin headers: preflight must not depend on them
		w, _ := do(s, http.MethodOptions, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"), path)
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"), path)
	}
}

func TestNewsletterOriginValidation(t *testing.T) {
	s := newTestServer(testConfig(), nil)
	payload := `{"email":"a@b.co"}`

	w, body := do(s, http.MethodPost, "/api/newsletter", payload, map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid request origin", body["error"])

	w, _ = do(s, http.MethodPost, "/api/newsletter", payload, map[string]string{"Referer": "https://evil.example/page"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(s, http.MethodPost, "/api/newsletter", payload, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(s, http.MethodPost, "/api/newsletter", payload,
		map[string]string{"Referer": "https://www.layer10security.io/blog/post"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewsletterDevContextAllowsMissingHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.Context = config.ContextDev
	s := newTestServer(cfg, nil)

	w, body := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	// A foreign origin is still rejected in dev
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewsletterRateLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestServer(testConfig(), clock)
	headers := map[string]string{
		"Origin":          "https://layer10security.io",
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
	}

	for i := 0; i < 3; i++ {
		w, body := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, headers)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "Thanks for subscribing! Check your email to confirm.", body["message"])
		clock.Advance(time.Second)
	}

	w, body := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests. Please try again later.", body["error"])

	// Another client is unaffected
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`,
		map[string]string{"Origin": "https://layer10security.io", "X-Forwarded-For": "198.51.100.2"})
	assert.Equal(t, http.StatusOK, w.Code)

	// After the first attempt leaves the window one slot frees up
	clock.Advance(57 * time.Second)
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	clock.Advance(61 * time.Second)
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, headers)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitAppliesOnlyToNewsletter(t *testing.T) {
	s := newTestServer(testConfig(), nil)

	for i := 0; i < 5; i++ {
		w, _ := do(s, http.MethodPost, "/api/early-access", `{"email":"a@b.co"}`, nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimitRejectionRecordsNothing(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestServer(testConfig(), clock)

	for i := 0; i < 3; i++ {
		w, _ := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, siteOrigin)
		require.Equal(t, http.StatusOK, w.Code)
	}
	// Hammering while limited must not extend the window
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		w, _ := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, siteOrigin)
		require.Equal(t, http.StatusTooManyRequests, w.Code)
	}

	clock.Advance(11 * time.Second)
	w, _ := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, siteOrigin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoAPIKeyMakesNoOutboundCalls(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK)
	cfg := testConfig()
	cfg.ResendAPIURL = provider.URL
	s := newTestServer(cfg, nil)

	w, _ := do(s, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","subject":"Hi","message":"Hello"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(s, http.MethodPost, "/api/early-access", `{"email":"a@b.co"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, siteOrigin)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestProviderFailureStillSucceeds(t *testing.T) {
	provider := newFakeProvider(t, http.StatusInternalServerError)
	cfg := testConfig()
	cfg.ResendAPIKey = "re_test"
	cfg.ResendAPIURL = provider.URL
	s := newTestServer(cfg, nil)

	w, body := do(s, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","subject":"Hi","message":"Hello"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = do(s, http.MethodPost, "/api/early-access", `{"email":"a@b.co"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thank you! We'll reach out when early access is available.", body["message"])

	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestOneOutboundCallPerAcceptedSubmission(t *testing.T) {
	provider := newFakeProvider(t, http.StatusOK)
	cfg := testConfig()
	cfg.ResendAPIKey = "re_test"
	cfg.ResendAPIURL = provider.URL
	s := newTestServer(cfg, nil)

	w, _ := do(s, http.MethodPost, "/api/newsletter", `{"email":" User@Example.COM "}`, siteOrigin)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{"email":"bad"}`, siteOrigin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(s, http.MethodPost, "/api/newsletter", `{}`, siteOrigin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestNewsletterSecurityHeaders(t *testing.T) {
	s := newTestServer(testConfig(), nil)

	w, _ := do(s, http.MethodPost, "/api/newsletter", `{"email":"a@b.co"}`, siteOrigin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMalformedJSONIsInternalError(t *testing.T) {
	s := newTestServer(testConfig(), nil)

	w, body := do(s, http.MethodPost, "/api/contact", `{"name":`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(testConfig(), nil)

	w, body := do(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestBuildLimiter(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	limiter, closeFn, err := BuildLimiter(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &ratelimit.MemoryLimiter{}, limiter)
	require.NoError(t, closeFn())

	cfg.RateLimitStore = config.StoreSQLite
	cfg.RateLimitDSN = filepath.Join(t.TempDir(), "limits.db")
	limiter, closeFn, err = BuildLimiter(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &ratelimit.SQLLimiter{}, limiter)

	now := time.Now()
	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "203.0.113.7", now)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, "203.0.113.7", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreflightNeverThrottled(t *testing.T) {
	defaults, err := config.Parse()
	require.NoError(t, err)

	throttled := testConfig()
	throttled.GlobalRPS = 10
	throttled.GlobalBurst = 20

	for name, cfg := range map[string]*config.Config{"defaults": defaults, "throttled": throttled} {
		s := newTestServer(cfg, nil)

		for i := 0; i < 30; i++ {
			w, _ := do(s, http.MethodOptions, "/api/contact", "", nil)
			require.Equal(t, http.StatusOK, w.Code, "%s: preflight %d", name, i+1)
		}

		for i := 0; i < 5; i++ {
			w, _ := do(s, http.MethodPost, "/api/contact",
				`{"name":"Ana","email":"ana@example.com","subject":"Hi","message":"Hello"}`,
				map[string]string{"X-Forwarded-For": "198.51.100.2"})
			assert.Equal(t, http.StatusOK, w.Code, "%s: submission %d", name, i+1)
		}
	}
}

func TestThrottleIsPerClient(t *testing.T) {
	cfg := testConfig()
	cfg.GlobalRPS = 0.001
	cfg.GlobalBurst = 2
	s := newTestServer(cfg, nil)
	noisy := map[string]string{"X-Forwarded-For": "203.0.113.7"}

	for i := 0; i < 2; i++ {
		w, _ := do(s, http.MethodGet, "/health", "", noisy)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := do(s, http.MethodGet, "/health", "", noisy)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = do(s, http.MethodPost, "/api/early-access", `{"email":"a@b.co"}`,
		map[string]string{"X-Forwarded-For": "198.51.100.2"})
	assert.Equal(t, http.StatusOK, w.Code)
}
