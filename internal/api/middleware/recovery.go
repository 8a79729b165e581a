package middleware

import (
	"runtime/debug"

	"github.com/layer10security/formrelay/internal/api/constants"
	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the generic 500 body and logs the stack
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.GetGlobalLogger().Error("[PANIC] %s %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.GetString(constants.ContextKeyRequestID),
					err,
					debug.Stack(),
				)

				c.AbortWithStatusJSON(common.ErrInternal.Status, common.NewErrorResponse(common.ErrInternal.Message))
			}
		}()

		c.Next()
	}
}
