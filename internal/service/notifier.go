package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Message is one outbound operator notification
type Message struct {
	Form    string
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers a message to operators. Callers decide what a failure means.
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}

// NoopNotifier is used when no delivery channel is configured
type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, *Message) error { return nil }

// MultiNotifier sends every message to all channels concurrently and
// reports the joined failures. One failing channel never stops another.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier returns the single notifier when only one is given,
// a NoopNotifier when none are.
func NewMultiNotifier(notifiers ...Notifier) Notifier {
	switch len(notifiers) {
	case 0:
		return NoopNotifier{}
	case 1:
		return notifiers[0]
	}
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Send(ctx context.Context, msg *Message) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)

	for _, n := range m.notifiers {
		g.Go(func() error {
			if err := n.Send(ctx, msg); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
