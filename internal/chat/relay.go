// Package chat relays user messages to the external webhook-driven assistant.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// FallbackReply is stored as the assistant's answer when the webhook cannot
// be reached. Chat keeps working in degraded mode instead of erroring out.
const FallbackReply = "The assistant is unavailable right now. Please try again in a moment."

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("chat webhook not configured")

// Relay forwards messages to the assistant webhook and extracts its reply.
// The webhook's own behavior is an external concern; the relay only shapes
// the request and tolerates the response formats seen in the wild.
type Relay struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRelay builds a relay for the given webhook URL with a bounded timeout.
func NewRelay(webhookURL string, timeout time.Duration, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Relay{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts the user's message to the webhook and returns the assistant's
// reply text.
func (r *Relay) Send(ctx context.Context, username, message string) (string, error) {
	if r.webhookURL == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"message":  message,
		"username": username,
	})
	if err != nil {
		return "", fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read webhook response: %w", err)
	}

	reply := extractReply(body)
	if reply == "" {
		return "", fmt.Errorf("webhook returned no reply text")
	}
	return reply, nil
}

// extractReply pulls the answer text out of the webhook response. Different
// assistant configurations name the field differently, so several keys are
// tried before falling back to the raw body.
func extractReply(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, key := range []string{"response", "reply", "output", "text", "message"} {
		if v, ok := payload[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
