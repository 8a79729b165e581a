package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/layer10security/formrelay/internal/api/dto/common"
	"github.com/layer10security/formrelay/internal/api/validation"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/service"
	"github.com/layer10security/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// DefaultNotifyTimeout bounds the outbound notification when none is configured
const DefaultNotifyTimeout = 10 * time.Second

var errNullBody = errors.New("request body is null")

// FormDeps are the collaborators shared by the form handlers
type FormDeps struct {
	Notifier  service.Notifier
	Validator *validation.Validator
	// Recipient receives early access and newsletter notifications
	Recipient     string
	NotifyTimeout time.Duration
	Now           func() time.Time
}

func (d FormDeps) withDefaults() FormDeps {
	if d.Notifier == nil {
		d.Notifier = service.NoopNotifier{}
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Recipient == "" {
		d.Recipient = service.ContactRecipient
	}
	if d.NotifyTimeout <= 0 {
		d.NotifyTimeout = DefaultNotifyTimeout
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// bindSubmission decodes the JSON body into req. A malformed body, an
// empty body or a JSON null is reported as an internal error rather than
// a 400, matching the behavior the site's forms were built against.
func bindSubmission(c *gin.Context, req interface{}) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.HandleAPIError(c, common.ErrInternal.WithCause(err))
		return false
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		utils.HandleAPIError(c, common.ErrInternal.WithCause(errNullBody))
		return false
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		utils.HandleAPIError(c, common.ErrInternal.WithCause(err))
		return false
	}
	return true
}

// notifyBestEffort sends msg and discards any failure after logging it.
// The submitter sees the same response whether or not delivery worked.
// The send is detached from client cancellation and bounded by timeout.
// The returned error is informational; handlers ignore it.
func notifyBestEffort(c *gin.Context, notifier service.Notifier, timeout time.Duration, msg *service.Message) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), timeout)
	defer cancel()

	if err := notifier.Send(ctx, msg); err != nil {
		err = logging.WrapError(fmt.Errorf("%w: %w", logging.ErrNotify, err), msg.Form+" notification")
		utils.LogError(err, "Delivery failed")
		return err
	}
	return nil
}
