// Package main is the entry point for the predictor Lambda.
//
// Each invocation runs one prediction cycle: list notifiable users, evaluate
// their favorite locations against the forecast, and enqueue alerts. The
// schedule itself lives in EventBridge. Outside Lambda (local runs) the cycle
// executes once and the process exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"rainbowfinder/internal/config"
	"rainbowfinder/internal/db"
	"rainbowfinder/internal/external"
	"rainbowfinder/internal/notifications"
	"rainbowfinder/internal/queue"
	"rainbowfinder/internal/scheduler"
	"rainbowfinder/internal/types"
)

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
	weather := external.NewOpenMeteoClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		cfg.Weather.BaseURL,
		extLogger,
	)

	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWS.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
		}
	})
	cwClient := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
		if cfg.AWS.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
		}
	})

	clock := types.RealClock{}
	cycle := scheduler.NewPredictionCycle(scheduler.CycleConfig{
		Users:          db.NewUserRepository(pool),
		Weather:        weather,
		Publisher:      queue.NewAlertQueue(sqsClient, cfg.AWS.AlertQueue, logger),
		Policy:         notifications.NewPolicyEngine(clock, extLogger),
		Metrics:        notifications.NewCloudWatchMetrics(cwClient, extLogger),
		Clock:          clock,
		Logger:         logger,
		ForecastHours:  cfg.Weather.ForecastHours,
		SearchRadiusKM: cfg.Predictor.SearchRadiusKM,
		UserFanout:     cfg.Predictor.UserFanout,
	})

	handler := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, cfg.Predictor.CycleTimeout)
		defer cancel()
		_, err := cycle.Run(ctx)
		return err
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handler)
		return nil
	}
	return handler(ctx)
}
