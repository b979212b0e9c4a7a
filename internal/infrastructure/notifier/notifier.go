package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// WhatsAppNotifier posts messages to an HTTP WhatsApp gateway.
type WhatsAppNotifier struct {
	gatewayURL string
	token      string
	client     *http.Client
}

func NewWhatsAppNotifier(gatewayURL, token string, timeout time.Duration) *WhatsAppNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppNotifier{
		gatewayURL: gatewayURL,
		token:      token,
		client:     &http.Client{Timeout: timeout},
	}
}

func (n *WhatsAppNotifier) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(MessagePayload{To: to, Message: body})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}

// LogNotifier is used when no gateway is configured: messages are only logged.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, to, body string) error {
	n.logger.Info("Notification (no gateway configured)", "to", to, "body", body)
	return nil
}
