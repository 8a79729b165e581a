package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/layer10security/formrelay/internal/service"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var errNoChannel = errors.New("no delivery channel configured: set RESEND_API_KEY or TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a sample notification through the configured channels",
	Long: `Send a sample early access notification through every configured
delivery channel and report the result. Useful after rotating RESEND_API_KEY
or the Telegram bot token.

Example:
  formrelay notify-test
  formrelay notify-test --email someone@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		notifier := service.NewNotifier(cfg)
		if _, ok := notifier.(service.NoopNotifier); ok {
			return errNoChannel
		}

		email, _ := cmd.Flags().GetString("email")
		msg := service.NewEarlyAccessMessage(email, cfg.NotificationEmail, time.Now())
		msg.Subject = "[Test] " + msg.Subject

		ctx, cancel := context.WithTimeout(context.Background(), cfg.NotifyTimeout)
		defer cancel()

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Sending test notification to %s...", cfg.NotificationEmail)
		s.Start()
		err = notifier.Send(ctx, msg)
		s.Stop()

		if err != nil {
			return fmt.Errorf("test notification failed: %w", err)
		}
		logger.Info("Test notification sent to %s", cfg.NotificationEmail)
		return nil
	},
}

func initNotifyCommands() {
	notifyTestCmd.Flags().String("email", "test@layer10security.io", "Submitter email used in the sample message")
}
