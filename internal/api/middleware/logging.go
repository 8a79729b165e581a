package middleware

import (
	"time"

	"github.com/layer10security/formrelay/internal/api/constants"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request when enabled
func RequestLogger(logger *logging.Logger, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.LogHTTPRequest(
			method,
			path,
			utils.GetClientIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
