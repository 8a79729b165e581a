package middleware

import (
	"net/http"

	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// FormGate sets the CORS headers the site's form pages need, answers
// preflight requests and rejects every method other than POST.
func FormGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Content-Type", "application/json")

		// Preflight: empty body, no further processing
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		if c.Request.Method != http.MethodPost {
			utils.HandleAPIError(c, common.ErrMethodNotAllowed)
			return
		}

		c.Next()
	}
}
