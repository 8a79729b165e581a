package routes

import (
	"github.com/layer10security/formrelay/internal/api/handlers"
	"github.com/layer10security/formrelay/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Form routes accept every method so the gate, not the router, answers
// OPTIONS and 405.

// SetupContactRoutes configures the contact form
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler) {
	for _, path := range ContactPaths {
		router.Any(path, middleware.FormGate(), contact.Submit)
	}
}

// SetupEarlyAccessRoutes configures the early access form
func SetupEarlyAccessRoutes(router *gin.Engine, earlyAccess *handlers.EarlyAccessHandler) {
	for _, path := range EarlyAccessPaths {
		router.Any(path, middleware.FormGate(), earlyAccess.Request)
	}
}

// SetupNewsletterRoutes configures the newsletter form behind origin and
// per-client rate limit checks
func SetupNewsletterRoutes(router *gin.Engine, newsletter *handlers.NewsletterHandler, m *Middleware) {
	chain := []gin.HandlerFunc{
		middleware.SecurityHeaders(),
		middleware.FormGate(),
	}
	if m.NewsletterOrigin != nil {
		chain = append(chain, m.NewsletterOrigin)
	}
	if m.NewsletterRateLimit != nil {
		chain = append(chain, m.NewsletterRateLimit)
	}
	chain = append(chain, newsletter.Subscribe)

	for _, path := range NewsletterPaths {
		router.Any(path, chain...)
	}
}
