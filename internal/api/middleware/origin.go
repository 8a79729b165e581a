package middleware

import (
	"net/http"
	"strings"

	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// OriginConfig defines which pages may submit a protected form
type OriginConfig struct {
	// AllowedOrigins are matched as prefixes of Origin or Referer
	AllowedOrigins []string
	// AllowMissing admits requests carrying neither header (local development)
	AllowMissing bool
}

// IsAllowedOrigin checks Origin first and falls back to Referer
func IsAllowedOrigin(r *http.Request, config OriginConfig) bool {
	value := r.Header.Get("Origin")
	if value == "" {
		value = r.Header.Get("Referer")
	}
	if value == "" {
		return config.AllowMissing
	}

	for _, allowed := range config.AllowedOrigins {
		if allowed != "" && strings.HasPrefix(value, allowed) {
			return true
		}
	}
	return false
}

// ValidateOrigin rejects submissions posted from pages outside the
// allow-list. The form has no other authentication.
func ValidateOrigin(config OriginConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAllowedOrigin(c.Request, config) {
			logging.GetGlobalLogger().Warn("Rejected %s from origin %q referer %q",
				c.Request.URL.Path, c.Request.Header.Get("Origin"), c.Request.Referer())
			utils.HandleAPIError(c, common.ErrInvalidOrigin)
			return
		}
		c.Next()
	}
}
