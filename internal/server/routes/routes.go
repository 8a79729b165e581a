package routes

import (
	"github.com/layer10security/formrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// Paths the static site posts to. The legacy serverless paths stay
// routed so already deployed pages keep working.
var (
	ContactPaths     = []string{"/api/contact", "/.netlify/functions/contact"}
	EarlyAccessPaths = []string{"/api/early-access", "/.netlify/functions/early-access"}
	NewsletterPaths  = []string{"/api/newsletter", "/.netlify/functions/newsletter"}
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	SetupHealthRoutes(router, h.Health)
	SetupContactRoutes(router, h.Contact)
	SetupEarlyAccessRoutes(router, h.EarlyAccess)
	SetupNewsletterRoutes(router, h.Newsletter, m)

	logging.GetGlobalLogger().Debug("All routes have been set up successfully")
}
