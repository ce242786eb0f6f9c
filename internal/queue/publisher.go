// Package queue provides the SQS-based producer that hands predicted alerts
// from the scheduler to the notifier worker.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"rainbowfinder/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Compile-time assertion that AlertQueue implements types.AlertPublisher.
var _ types.AlertPublisher = (*AlertQueue)(nil)

// AlertQueue serializes AlertMessages to JSON and sends them to the alert
// queue. Message and trace IDs are filled in when the caller leaves them
// empty, so every message on the wire is traceable.
type AlertQueue struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

// NewAlertQueue creates an AlertQueue producer for the given queue URL.
func NewAlertQueue(client SQSSender, queueURL string, logger *slog.Logger) *AlertQueue {
	return &AlertQueue{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Publish enqueues one alert for asynchronous delivery.
func (q *AlertQueue) Publish(ctx context.Context, msg types.AlertMessage) error {
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	if msg.TraceID == "" {
		if traceID := types.GetRequestID(ctx); traceID != "" {
			msg.TraceID = traceID
		} else {
			msg.TraceID = uuid.New().String()
		}
	}
	if msg.UserID == "" {
		return fmt.Errorf("queue: alert message missing user_id")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("queue: failed to marshal AlertMessage: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(msg.EventType)),
			},
		},
	}

	if _, err := q.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("queue: failed to send AlertMessage to %s: %w", q.queueURL, err)
	}

	q.logger.InfoContext(ctx, "alert message sent",
		"queue_url", q.queueURL,
		"message_id", msg.MessageID,
		"trace_id", msg.TraceID,
		"user_id", msg.UserID,
		"event_type", string(msg.EventType),
		"notify_at", msg.NotifyAt,
	)
	return nil
}
