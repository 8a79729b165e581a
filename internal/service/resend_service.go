package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultResendURL is the Resend send-email endpoint
const DefaultResendURL = "https://api.resend.com/emails"

// maxErrorBody caps how much of a provider error body ends up in logs
const maxErrorBody = 4 << 10

// ResendService sends notifications through the Resend email API
type ResendService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	tracer   trace.Tracer
}

// NewResendService creates a new Resend notifier
func NewResendService(apiKey, endpoint string, timeout time.Duration) *ResendService {
	if endpoint == "" {
		endpoint = DefaultResendURL
	}
	return &ResendService{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		tracer: otel.Tracer("formrelay/service/resend"),
	}
}

// resendEmail is the Resend API request body
type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Send issues one POST to the provider. Any non-2xx status is an error.
func (s *ResendService) Send(ctx context.Context, msg *Message) (err error) {
	ctx, span := s.tracer.Start(ctx, "resend.send", trace.WithAttributes(
		attribute.String("form", msg.Form),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send failed")
		}
		span.End()
	}()

	if s.apiKey == "" {
		return ErrNotConfigured
	}

	jsonData, err := json.Marshal(resendEmail{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resend email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: resend request: %v", ErrNotifyFailed, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: resend API returned status %d: %s", ErrNotifyFailed, resp.StatusCode, bytes.TrimSpace(body))
	}

	return nil
}
