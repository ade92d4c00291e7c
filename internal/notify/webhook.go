package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/circuitbreaker"
	"github.com/evohome/evohome-cms/pkg/httpclient"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/evohome/evohome-cms/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// WebhookNotifier POSTs each lead as JSON to a configured URL
type WebhookNotifier struct {
	url     string
	client  httpclient.Client
	breaker *gobreaker.CircuitBreaker
	retry   retry.Config
}

// webhookPayload is the body sent to the lead webhook
type webhookPayload struct {
	Event string      `json:"event"`
	Lead  models.Lead `json:"lead"`
}

// NewWebhookNotifier returns nil when url is empty
func NewWebhookNotifier(url string, client httpclient.Client) *WebhookNotifier {
	if url == "" {
		return nil
	}
	return &WebhookNotifier{
		url:     url,
		client:  client,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("lead-webhook")),
		retry:   retry.WebhookConfig(),
	}
}

// Channel returns "webhook"
func (w *WebhookNotifier) Channel() string { return "webhook" }

// Notify delivers the lead, retrying transient failures while the breaker is closed
func (w *WebhookNotifier) Notify(ctx context.Context, lead models.Lead) error {
	body, err := json.Marshal(webhookPayload{Event: "lead.created", Lead: lead})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	cfg := w.retry
	cfg.RetryableErrors = func(err error) bool { return !circuitbreaker.IsCircuitOpen(w.breaker) }

	return retry.Do(ctx, cfg, "lead-webhook", func() error {
		_, err := circuitbreaker.Execute(w.breaker, func() (int, error) {
			return w.post(ctx, body)
		})
		return err
	})
}

func (w *WebhookNotifier) post(ctx context.Context, body []byte) (int, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		logger.LogAPICall(ctx, "lead-webhook", "post", "error", duration, zap.Error(err))
		return 0, fmt.Errorf("call lead webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.LogAPICall(ctx, "lead-webhook", "post", "error", duration, zap.Int("status_code", resp.StatusCode))
		return resp.StatusCode, fmt.Errorf("lead webhook returned status %d", resp.StatusCode)
	}
	logger.LogAPICall(ctx, "lead-webhook", "post", "success", duration, zap.Int("status_code", resp.StatusCode))
	return resp.StatusCode, nil
}
