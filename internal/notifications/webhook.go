package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"rainbowfinder/internal/types"
)

// maxResponseBodyRead limits how much of a response body we read for error
// messages and provider message ID extraction.
const maxResponseBodyRead = 4096

// defaultWebhookTimeout bounds a single delivery attempt.
const defaultWebhookTimeout = 10 * time.Second

// Compile-time assertion that WebhookChannel implements types.NotificationChannel.
var _ types.NotificationChannel = (*WebhookChannel)(nil)

// WebhookChannel delivers alerts as JSON POSTs to a user-supplied HTTPS
// endpoint. Destinations are validated against types.ValidateWebhookURL
// before delivery is attempted.
type WebhookChannel struct {
	httpClient *http.Client
	userAgent  string
	logger     types.Logger
}

// NewWebhookChannel creates a WebhookChannel with a bounded-timeout HTTP
// client. Pass a nil client to use the default.
func NewWebhookChannel(httpClient *http.Client, userAgent string, logger types.Logger) *WebhookChannel {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultWebhookTimeout}
	}
	if userAgent == "" {
		userAgent = "rainbowfinder-webhook/1.0"
	}
	return &WebhookChannel{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Type returns the channel type identifier for webhooks.
func (w *WebhookChannel) Type() types.ChannelType {
	return types.ChannelWebhook
}

// webhookPayload is the wire shape POSTed to user endpoints.
type webhookPayload struct {
	MessageID   string                  `json:"message_id"`
	Event       types.EventType         `json:"event"`
	GeneratedAt time.Time               `json:"generated_at"`
	Prediction  types.RainbowPrediction `json:"prediction"`
}

// Format serializes the alert into the generic webhook JSON envelope. The
// full prediction is included; receivers pick the fields they care about.
func (w *WebhookChannel) Format(ctx context.Context, msg *types.AlertMessage) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("webhook channel: message is nil")
	}

	payload := webhookPayload{
		MessageID:   msg.MessageID,
		Event:       msg.EventType,
		GeneratedAt: msg.Ordering.EvalTimestamp,
		Prediction:  msg.Prediction,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("webhook channel: marshal payload: %w", err)
	}
	return body, nil
}

// Deliver POSTs the pre-formatted payload to the destination URL.
//
// Response handling:
//   - 2xx: success
//   - 429: transient, retryable
//   - other 4xx: permanent failure
//   - 5xx and network errors: transient, retryable
func (w *WebhookChannel) Deliver(ctx context.Context, payload []byte, destination string) (*types.DeliveryResult, error) {
	if err := types.ValidateWebhookURL(destination); err != nil {
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: fmt.Sprintf("invalid_destination: %v", err),
			Retryable:     false,
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("webhook deliver: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Warn("webhook network error",
			"destination", destination,
			"error", err.Error(),
		)
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: fmt.Sprintf("network_error: %v", err),
			Retryable:     true,
		}, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyRead))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		w.logger.Info("webhook delivered",
			"destination", destination,
			"status", resp.StatusCode,
		)
		return &types.DeliveryResult{
			ProviderMessageID: providerMessageID(resp),
			Status:            types.DeliveryStatusSent,
		}, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		w.logger.Warn("webhook rate limited",
			"destination", destination,
		)
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusRetrying,
			FailureReason: "rate_limited_429",
			Retryable:     true,
		}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: fmt.Sprintf("client_error_%d: %s", resp.StatusCode, truncateBody(body)),
			Retryable:     false,
		}, nil

	default:
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: fmt.Sprintf("server_error_%d: %s", resp.StatusCode, truncateBody(body)),
			Retryable:     true,
		}, nil
	}
}

// ShouldRetry treats every transport error as transient; permanent failures
// are reported through DeliveryResult, not errors.
func (w *WebhookChannel) ShouldRetry(err error) bool {
	return err != nil
}

// providerMessageID pulls a receiver-assigned request ID from response
// headers when one exists.
func providerMessageID(resp *http.Response) string {
	if reqID := resp.Header.Get("X-Request-Id"); reqID != "" {
		return reqID
	}
	return "http-" + strconv.Itoa(resp.StatusCode)
}

// truncateBody keeps failure reasons bounded.
func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
