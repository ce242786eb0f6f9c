package notifications

import (
	"context"
	"fmt"

	"rainbowfinder/internal/types"
)

// DeliveryManager routes one alert to the user's channel, formats it, and
// delivers it, recording telemetry for every outcome. Retries are the
// caller's concern; the manager surfaces Retryable so the queue worker can
// redrive the message.
type DeliveryManager struct {
	channels map[types.ChannelType]types.NotificationChannel
	metrics  Metrics
	clock    types.Clock
	logger   types.Logger
}

// NewDeliveryManager creates a DeliveryManager over the given channels.
func NewDeliveryManager(channels []types.NotificationChannel, metrics Metrics, clock types.Clock, logger types.Logger) *DeliveryManager {
	byType := make(map[types.ChannelType]types.NotificationChannel, len(channels))
	for _, ch := range channels {
		byType[ch.Type()] = ch
	}
	return &DeliveryManager{
		channels: byType,
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
	}
}

// Dispatch delivers the alert to the user. Webhook wins when the user has
// both a webhook URL and an email address; a user with neither gets a
// skipped result, not an error.
func (m *DeliveryManager) Dispatch(ctx context.Context, msg *types.AlertMessage, user types.UserProfile) (*types.DeliveryResult, error) {
	channelType, destination := routeFor(user)
	if destination == "" {
		m.logger.Info("user has no delivery destination, skipping",
			"user_id", user.ID,
			"message_id", msg.MessageID,
		)
		return &types.DeliveryResult{Status: types.DeliveryStatusSkipped}, nil
	}

	channel, ok := m.channels[channelType]
	if !ok {
		return nil, fmt.Errorf("delivery: no channel registered for %q", channelType)
	}

	payload, err := channel.Format(ctx, msg)
	if err != nil {
		m.metrics.RecordDelivery(ctx, channelType, MetricResultFailure)
		return nil, fmt.Errorf("delivery: format for %s: %w", channelType, err)
	}

	started := m.clock.Now()
	result, err := channel.Deliver(ctx, payload, destination)
	m.metrics.RecordDeliveryLatency(ctx, channelType, m.clock.Now().Sub(started))

	if err != nil {
		m.metrics.RecordDelivery(ctx, channelType, MetricResultFailure)
		return nil, fmt.Errorf("delivery: %s transport: %w", channelType, err)
	}

	switch result.Status {
	case types.DeliveryStatusSent:
		m.metrics.RecordDelivery(ctx, channelType, MetricResultSuccess)
		m.logger.Info("alert delivered",
			"user_id", user.ID,
			"message_id", msg.MessageID,
			"channel", string(channelType),
			"provider_message_id", result.ProviderMessageID,
		)
	case types.DeliveryStatusSkipped:
		m.metrics.RecordDelivery(ctx, channelType, MetricResultSkipped)
	default:
		m.metrics.RecordDelivery(ctx, channelType, MetricResultFailure)
		m.logger.Warn("alert delivery failed",
			"user_id", user.ID,
			"message_id", msg.MessageID,
			"channel", string(channelType),
			"reason", result.FailureReason,
			"retryable", result.Retryable,
		)
	}

	return result, nil
}

// routeFor picks the channel and destination for a user.
func routeFor(user types.UserProfile) (types.ChannelType, string) {
	if user.WebhookURL != "" {
		return types.ChannelWebhook, user.WebhookURL
	}
	if user.Email != "" {
		return types.ChannelEmail, user.Email
	}
	return "", ""
}
