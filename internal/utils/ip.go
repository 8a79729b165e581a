package utils

import (
	"strings"

	"github.com/layer10security/formrelay/internal/api/constants"

	"github.com/gin-gonic/gin"
)

// GetClientIP identifies the submitter for rate limiting: the first
// X-Forwarded-For entry, then Client-IP, then X-Real-IP, else "unknown".
// The socket address is ignored because the service runs behind a proxy.
func GetClientIP(c *gin.Context) string {
	if forwardedFor := c.GetHeader(constants.HeaderForwardedFor); forwardedFor != "" {
		// Format: client, proxy1, proxy2, ...
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := c.GetHeader(constants.HeaderClientIP); ip != "" {
		return ip
	}

	if ip := c.GetHeader(constants.HeaderRealIP); ip != "" {
		return ip
	}

	return constants.UnknownClient
}
