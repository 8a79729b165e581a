package handlers

import (
	"time"

	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/api/dto/v1/contact"
	"github.com/layer10security/formrelay/internal/api/mapper"
	"github.com/layer10security/formrelay/internal/api/sanitization"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/service"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	deps FormDeps
}

func NewContactHandler(deps FormDeps) *ContactHandler {
	return &ContactHandler{deps: deps.withDefaults()}
}

// Submit relays a contact form submission to the contact inbox
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contact.ContactRequest
	if !bindSubmission(c, &req) {
		return
	}

	if err := h.deps.Validator.Submission(&req, common.ErrMissingFields); err != nil {
		utils.HandleAPIError(c, err)
		return
	}

	now := h.deps.Now()
	logging.GetGlobalLogger().Info("Contact form submission: name=%q email=%q company=%q subject=%q message=%q at %s",
		sanitization.ForLog(req.Name),
		sanitization.ForLog(req.Email),
		sanitization.ForLog(sanitization.OrDefault(req.Company, "Not provided")),
		sanitization.ForLog(req.Subject),
		sanitization.ForLog(req.Message),
		now.UTC().Format(time.RFC3339),
	)

	msg := service.NewContactMessage(mapper.ContactRequestToDetails(&req), now)
	_ = notifyBestEffort(c, h.deps.Notifier, h.deps.NotifyTimeout, msg)

	utils.HandleSuccess(c, contact.SuccessMessage)
}
