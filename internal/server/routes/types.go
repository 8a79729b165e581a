package routes

import (
	"github.com/layer10security/formrelay/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact     *handlers.ContactHandler
	EarlyAccess *handlers.EarlyAccessHandler
	Newsletter  *handlers.NewsletterHandler
	Health      *handlers.HealthHandler
}

// Middleware contains the per-route guards of protected forms
type Middleware struct {
	NewsletterOrigin    gin.HandlerFunc
	NewsletterRateLimit gin.HandlerFunc
}
