package handlers

import (
	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/api/dto/v1/earlyaccess"
	"github.com/layer10security/formrelay/internal/api/sanitization"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/service"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

type EarlyAccessHandler struct {
	deps FormDeps
}

func NewEarlyAccessHandler(deps FormDeps) *EarlyAccessHandler {
	return &EarlyAccessHandler{deps: deps.withDefaults()}
}

// Request notifies the configured recipient of an early access sign-up
func (h *EarlyAccessHandler) Request(c *gin.Context) {
	var req earlyaccess.EarlyAccessRequest
	if !bindSubmission(c, &req) {
		return
	}

	if err := h.deps.Validator.Submission(&req, common.ErrEmailRequired); err != nil {
		utils.HandleAPIError(c, err)
		return
	}

	now := h.deps.Now()
	logging.GetGlobalLogger().Info("Early access request: email=%q ip=%s",
		sanitization.ForLog(req.Email),
		sanitization.ForLog(utils.GetClientIP(c)),
	)

	msg := service.NewEarlyAccessMessage(req.Email, h.deps.Recipient, now)
	_ = notifyBestEffort(c, h.deps.Notifier, h.deps.NotifyTimeout, msg)

	utils.HandleSuccess(c, earlyaccess.SuccessMessage)
}
