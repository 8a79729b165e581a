package utils

import (
	"net/http"

	"github.com/layer10security/formrelay/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends the success body for an accepted submission
func HandleSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(message))
}
