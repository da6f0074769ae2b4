// Package notify delivers connectivity notifications to an optional
// webhook endpoint.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/util"
)

// WebhookPayload represents the data sent to the webhook endpoint.
type WebhookPayload struct {
	Event           string  `json:"event"`
	Error           string  `json:"error,omitempty"`
	DowntimeSeconds float64 `json:"downtime_seconds,omitempty"`
	Timestamp       string  `json:"timestamp"`
}

// Webhook posts JSON notifications about event-source connectivity. The
// bridge calls it inline, so delivery happens on a separate goroutine.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns a webhook notifier for url.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SourceLost implements bridge.Notifier.
func (w *Webhook) SourceLost(err error) {
	go w.send(&WebhookPayload{
		Event:     "source_lost",
		Error:     errString(err),
		Timestamp: timestampUTC(),
	})
}

// SourceRecovered implements bridge.Notifier.
func (w *Webhook) SourceRecovered(downtime time.Duration) {
	go w.send(&WebhookPayload{
		Event:           "source_recovered",
		DowntimeSeconds: downtime.Seconds(),
		Timestamp:       timestampUTC(),
	})
}

// send delivers one notification, logging failures.
func (w *Webhook) send(payload *WebhookPayload) {
	if err := w.post(payload); err != nil {
		slog.Warn("webhook notification failed", "event", payload.Event, "error", err)
	}
}

func (w *Webhook) post(payload *WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return util.WrapError("marshal payload", err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return util.WrapError("send webhook request", err)
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // Best-effort cleanup
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// timestampUTC returns the current time in RFC 3339 UTC.
func timestampUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
