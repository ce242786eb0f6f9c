// Package main is the entry point for the notifier Lambda.
//
// It consumes AlertMessages from the alert SQS queue and delivers them over
// the user's channel (webhook preferred, email otherwise). Transient failures
// are reported as partial batch failures so SQS redrives only the affected
// messages; permanent failures are logged and acknowledged.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"rainbowfinder/internal/config"
	"rainbowfinder/internal/db"
	"rainbowfinder/internal/external"
	"rainbowfinder/internal/notifications"
	"rainbowfinder/internal/types"
)

// handler processes one SQS batch per invocation.
type handler struct {
	users    types.UserStore
	delivery *notifications.DeliveryManager
	logger   *slog.Logger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg.Database.URL.Unmask())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	extLogger := types.NewSlogLogger(logger)

	channels := []types.NotificationChannel{
		notifications.NewWebhookChannel(nil, "", extLogger),
	}
	if cfg.Email.Enabled {
		ses := external.NewSESClient(awsCfg, cfg.Email.Sender, extLogger)
		channels = append(channels, notifications.NewEmailChannel(ses, extLogger))
	}

	metrics := notifications.NewCloudWatchMetrics(cloudwatch.NewFromConfig(awsCfg), extLogger)

	h := &handler{
		users:    db.NewUserRepository(pool),
		delivery: notifications.NewDeliveryManager(channels, metrics, types.RealClock{}, extLogger),
		logger:   logger,
	}

	lambda.Start(h.handle)
	return nil
}

// handle processes each record independently and reports only the retryable
// failures back to SQS.
func (h *handler) handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.ErrorContext(ctx, "alert delivery will be retried",
				"sqs_message_id", record.MessageId,
				"error", err.Error(),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return resp, nil
}

// processRecord returns an error only when the message should be redriven.
func (h *handler) processRecord(ctx context.Context, record events.SQSMessage) error {
	var msg types.AlertMessage
	if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
		// A body that never parses will never parse; acknowledge it.
		h.logger.ErrorContext(ctx, "dropping malformed alert message",
			"sqs_message_id", record.MessageId,
			"error", err.Error(),
		)
		return nil
	}
	if msg.TraceID != "" {
		ctx = types.WithRequestID(ctx, msg.TraceID)
	}

	user, err := h.users.GetProfile(ctx, msg.UserID)
	if err != nil {
		var appErr *types.AppError
		if types.AsAppError(err, &appErr) && appErr.Code == types.ErrCodeNotFoundUser {
			h.logger.WarnContext(ctx, "alert for unknown user, dropping",
				"user_id", msg.UserID,
				"message_id", msg.MessageID,
			)
			return nil
		}
		return fmt.Errorf("loading profile for %s: %w", msg.UserID, err)
	}

	result, err := h.delivery.Dispatch(ctx, &msg, *user)
	if err != nil {
		return err
	}
	if result.Retryable && (result.Status == types.DeliveryStatusFailed || result.Status == types.DeliveryStatusRetrying) {
		return fmt.Errorf("delivery failed transiently: %s", result.FailureReason)
	}
	return nil
}
