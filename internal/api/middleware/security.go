package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders hardens JSON responses of public form endpoints
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Submission results must never be cached by browsers or proxies
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
