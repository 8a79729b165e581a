package service

import "errors"

// Sentinel errors for the notification layer
var (
	ErrNotConfigured = errors.New("notifier not configured")
	ErrNotifyFailed  = errors.New("notification failed")
)
