package utils

import (
	"errors"

	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// LogError logs an error with a message using the global logger
func LogError(err error, message string) {
	logging.GetGlobalLogger().Error("%s: %v", message, err)
}

// HandleAPIError aborts the request with the status and public message err
// maps to. Errors that are not an APIError become a generic 500. Causes
// are logged, never written to the response.
func HandleAPIError(c *gin.Context, err error) {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		apiErr = common.ErrInternal.WithCause(err)
	}

	if apiErr.Status >= 500 {
		logging.GetGlobalLogger().LogHTTPError(
			c.Request.Method,
			c.Request.URL.Path,
			GetClientIP(c),
			apiErr.Status,
			apiErr.Message,
			apiErr.Cause,
		)
	}

	c.AbortWithStatusJSON(apiErr.Status, common.NewErrorResponse(apiErr.Message))
}
