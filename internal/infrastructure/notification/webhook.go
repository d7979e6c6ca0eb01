package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/errors"
)

// WebhookNotifier delivers alert notifications as JSON POSTs to an
// internal webhook endpoint. The body it forwards is already redacted by
// the caller; this layer only handles transport.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier with a bounded request
// timeout.
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type webhookMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send posts the notification to the configured webhook.
func (n *WebhookNotifier) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(webhookMessage{To: to, Subject: subject, Body: body})
	if err != nil {
		return errors.NewInternalError("failed to marshal notification").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError("failed to build notification request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.NewExternalError("webhook", "notification delivery failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewExternalError("webhook",
			fmt.Sprintf("notification rejected with status %d", resp.StatusCode))
	}

	n.logger.Debug("notification delivered",
		zap.String("to", to),
		zap.String("subject", subject))

	return nil
}
