package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	domain "github.com/connectone/tradecore/internal/domain/notification"
)

// WebhookSender posts notifications to an external endpoint. A circuit
// breaker keeps a dead endpoint from burning the retry budget, and a
// rate limiter keeps bursts of trade events from flooding it.
type WebhookSender struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewWebhookSender creates a webhook sender for the given endpoint.
// An empty URL disables webhook delivery.
func NewWebhookSender(url string, ratePerSec float64, logger zerolog.Logger) *WebhookSender {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notify-webhook",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("webhook circuit breaker state changed")
		},
	})
	return &WebhookSender{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), int(ratePerSec)+1),
		logger:  logger.With().Str("component", "webhook_sender").Logger(),
	}
}

// Enabled reports whether an endpoint is configured.
func (w *WebhookSender) Enabled() bool {
	return w.url != ""
}

type webhookEnvelope struct {
	NotificationID string          `json:"notificationId"`
	TradeID        string          `json:"tradeId"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Send delivers one notification to the endpoint.
func (w *WebhookSender) Send(ctx context.Context, n *domain.Notification) error {
	if !w.Enabled() {
		return fmt.Errorf("webhook endpoint not configured")
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(webhookEnvelope{
		NotificationID: n.NotificationID.String(),
		TradeID:        n.TradeID.String(),
		Title:          n.Title,
		Body:           n.Body,
		Payload:        n.Payload,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		return err
	}

	_, err = w.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
