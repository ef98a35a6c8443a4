// Package notify provides Notifier implementations for invitation delivery.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/classforge/enroll/internal/enroll/service"
)

// WebhookNotifier posts invitation payloads to an external delivery service
// (mailer, SMS gateway, whatever sits behind the URL). The receiving side
// owns templating and channel selection; this side only guarantees the
// payload carries the code and the original deadline.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	OrgID     string    `json:"org_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (w *WebhookNotifier) Send(ctx context.Context, n service.Notification) error {
	body, err := json.Marshal(webhookPayload{
		OrgID:     n.OrgID,
		Email:     n.Email,
		Name:      n.Name,
		Code:      n.Code,
		ExpiresAt: n.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned %s", resp.Status)
	}
	return nil
}
