package service

import (
	"github.com/layer10security/formrelay/internal/config"
)

// NewNotifier assembles every delivery channel the configuration enables.
// With nothing configured the result is a NoopNotifier.
func NewNotifier(cfg *config.Config) Notifier {
	var notifiers []Notifier

	if cfg.ResendAPIKey != "" {
		notifiers = append(notifiers, NewResendService(cfg.ResendAPIKey, cfg.ResendAPIURL, cfg.NotifyTimeout))
	}
	if cfg.TelegramEnabled() {
		notifiers = append(notifiers, NewTelegramService(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.NotifyTimeout))
	}

	return NewMultiNotifier(notifiers...)
}
