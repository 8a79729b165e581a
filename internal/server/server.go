package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/layer10security/formrelay/internal/api/handlers"
	"github.com/layer10security/formrelay/internal/api/middleware"
	"github.com/layer10security/formrelay/internal/api/validation"
	"github.com/layer10security/formrelay/internal/config"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/ratelimit"
	"github.com/layer10security/formrelay/internal/server/routes"
	"github.com/layer10security/formrelay/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ServiceName identifies the service in traces and logs
const ServiceName = "formrelay"

// NewServer creates a new server instance with every route registered
func NewServer(cfg *config.Config, opts Options) *Server {
	if cfg.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	if opts.Notifier == nil {
		opts.Notifier = service.NewNotifier(cfg)
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewMemoryLimiter(limiterConfig(cfg))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	router := gin.New()
	setupGlobalMiddleware(router, cfg)

	deps := handlers.FormDeps{
		Notifier:      opts.Notifier,
		Validator:     validation.New(),
		Recipient:     cfg.NotificationEmail,
		NotifyTimeout: cfg.NotifyTimeout,
		Now:           opts.Now,
	}

	routes.Setup(router, &routes.Handlers{
		Contact:     handlers.NewContactHandler(deps),
		EarlyAccess: handlers.NewEarlyAccessHandler(deps),
		Newsletter:  handlers.NewNewsletterHandler(deps),
		Health:      handlers.NewHealthHandler(),
	}, &routes.Middleware{
		NewsletterOrigin: middleware.ValidateOrigin(middleware.OriginConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowMissing:   cfg.IsDevContext(),
		}),
		NewsletterRateLimit: middleware.ClientRateLimit(middleware.ClientRateLimitConfig{
			Limiter:    opts.Limiter,
			RetryAfter: cfg.RateLimitWindow,
			Now:        opts.Now,
		}),
	})

	return &Server{
		router:  router,
		cfg:     cfg,
		limiter: opts.Limiter,
	}
}

// setupGlobalMiddleware configures middleware that applies to all routes
func setupGlobalMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(ServiceName))
	router.Use(middleware.RequestLogger(logging.GetGlobalLogger(), cfg.LogRequests))
	router.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		RPS:   cfg.GlobalRPS,
		Burst: cfg.GlobalBurst,
	}))
}

func limiterConfig(cfg *config.Config) ratelimit.Config {
	return ratelimit.Config{
		Window:      cfg.RateLimitWindow,
		MaxRequests: cfg.RateLimitMax,
	}
}

// BuildLimiter creates the rate limit store selected by configuration.
// The returned close function releases any database handle.
func BuildLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func() error, error) {
	switch cfg.RateLimitStore {
	case config.StorePostgres, config.StoreSQLite:
		limiter, err := ratelimit.OpenSQL(ctx, cfg.RateLimitStore, cfg.RateLimitDSN, limiterConfig(cfg))
		if err != nil {
			return nil, nil, err
		}
		return limiter, limiter.Close, nil
	default:
		return ratelimit.NewMemoryLimiter(limiterConfig(cfg)), func() error { return nil }, nil
	}
}

// Router exposes the configured engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Limiter exposes the rate limiter the newsletter route uses
func (s *Server) Limiter() ratelimit.Limiter {
	return s.limiter
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	logger := logging.GetGlobalLogger()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
