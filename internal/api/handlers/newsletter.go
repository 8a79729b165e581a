package handlers

import (
	"github.com/layer10security/formrelay/internal/api/constants"
	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/api/dto/v1/newsletter"
	"github.com/layer10security/formrelay/internal/api/sanitization"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/service"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	deps FormDeps
}

func NewNewsletterHandler(deps FormDeps) *NewsletterHandler {
	return &NewsletterHandler{deps: deps.withDefaults()}
}

// Subscribe records a newsletter subscription. Origin and rate limit
// checks run as route middleware before this handler.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req newsletter.SubscribeRequest
	if !bindSubmission(c, &req) {
		return
	}

	if err := h.deps.Validator.Submission(&req, common.ErrEmailRequired); err != nil {
		utils.HandleAPIError(c, err)
		return
	}

	email := sanitization.NormalizeEmail(req.Email)
	if err := h.deps.Validator.Email(email, newsletter.MaxEmailLength); err != nil {
		utils.HandleAPIError(c, err)
		return
	}

	clientIP := c.GetString(constants.ContextKeyClientIP)
	if clientIP == "" {
		clientIP = utils.GetClientIP(c)
	}
	logging.GetGlobalLogger().Info("Newsletter subscription: email=%q ip=%s",
		sanitization.ForLog(email),
		sanitization.ForLog(clientIP),
	)

	msg := service.NewNewsletterMessage(email, h.deps.Recipient, h.deps.Now())
	_ = notifyBestEffort(c, h.deps.Notifier, h.deps.NotifyTimeout, msg)

	utils.HandleSuccess(c, newsletter.SuccessMessage)
}
