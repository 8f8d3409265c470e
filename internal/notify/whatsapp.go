// Package notify sends best-effort fire alert notifications through the
// WhatsApp Cloud API. Failures are logged and swallowed; nothing here may
// propagate to or delay the request path.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/firewatch/fire-events-service/internal/models"
)

// defaultBaseURL is the Graph API root; overridable for tests.
const defaultBaseURL = "https://graph.facebook.com/v19.0"

// Dispatcher submits alert messages to the WhatsApp Cloud API.
type Dispatcher struct {
	httpClient *http.Client
	baseURL    string
	phoneID    string
	token      string
	to         string
}

// NewDispatcher creates a dispatcher. Any empty credential leaves it
// disabled: Notify becomes a logged no-op.
func NewDispatcher(phoneID, token, to string) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		phoneID:    phoneID,
		token:      token,
		to:         to,
	}
}

// WithBaseURL overrides the API root. Used by tests.
func (d *Dispatcher) WithBaseURL(u string) *Dispatcher {
	d.baseURL = u
	return d
}

// Enabled reports whether all credentials required to send are configured.
func (d *Dispatcher) Enabled() bool {
	return d.phoneID != "" && d.token != "" && d.to != ""
}

// BuildMessage renders the fixed alert template for a stored event.
func BuildMessage(ev models.FireEvent) string {
	score := ev.Score
	if score == "" {
		score = "n/a"
	}

	label := "unknown"
	if s, ok := ev.Best["label"].(string); ok && s != "" {
		label = s
	}

	conf := "n/a"
	switch v := ev.Best["conf"].(type) {
	case float64:
		conf = fmt.Sprintf("%.2f", v)
	case int:
		conf = fmt.Sprintf("%.2f", float64(v))
	}

	image := "none"
	switch {
	case ev.ImageURL != "":
		image = ev.ImageURL
	case ev.SnapshotFilename != "":
		image = ev.SnapshotFilename
	}

	return fmt.Sprintf(
		"🔥 FIRE ALERT 🔥\nTime: %s\nScore: %s\nLabel: %s\nConfidence: %s\nImage: %s",
		ev.Timestamp, score, label, conf, image,
	)
}

// whatsappRequest is the Cloud API text-message payload.
type whatsappRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsappText `json:"text"`
}

type whatsappText struct {
	Body string `json:"body"`
}

// Notify submits the alert message for a stored event. When the dispatcher
// is not configured this is a logged no-op. Every failure is logged and
// returned, but callers on the request path must not wait on it.
func (d *Dispatcher) Notify(ctx context.Context, ev models.FireEvent) error {
	if !d.Enabled() {
		slog.Info("notification disabled, skipping", "event_id", ev.ID)
		return nil
	}

	msg := BuildMessage(ev)

	body, err := json.Marshal(whatsappRequest{
		MessagingProduct: "whatsapp",
		To:               d.to,
		Type:             "text",
		Text:             whatsappText{Body: msg},
	})
	if err != nil {
		slog.Error("failed to marshal notification payload", "error", err, "event_id", ev.ID)
		return fmt.Errorf("marshal notification: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", d.baseURL, d.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build notification request", "error", err, "event_id", ev.ID)
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.token)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to send notification", "error", err, "event_id", ev.ID)
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("notification endpoint returned error status",
			"status_code", resp.StatusCode,
			"body", string(detail),
			"event_id", ev.ID,
		)
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}

	slog.Info("notification sent", "event_id", ev.ID, "to", d.to)
	return nil
}
