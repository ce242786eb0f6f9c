package external

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"rainbowfinder/internal/notifications"
	"rainbowfinder/internal/types"
)

// SESAPI is the subset of the SES v2 client used by SESClient. Extracted for
// testability; tests provide a mock implementation.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Compile-time assertion that SESClient implements notifications.EmailProvider.
var _ notifications.EmailProvider = (*SESClient)(nil)

// SESClient implements notifications.EmailProvider using AWS SES v2.
// Authentication is handled via IAM roles. The AWS SDK provides built-in
// retry logic, so no BaseClient wrapper is needed.
type SESClient struct {
	api    SESAPI
	sender string
	logger types.Logger
}

// NewSESClient creates an SESClient sending from the given verified address.
func NewSESClient(awsCfg aws.Config, sender string, logger types.Logger) *SESClient {
	return &SESClient{
		api:    sesv2.NewFromConfig(awsCfg),
		sender: sender,
		logger: logger,
	}
}

// NewSESClientWithAPI creates an SESClient with a pre-configured SESAPI.
// Useful for testing with a mock SES interface.
func NewSESClientWithAPI(api SESAPI, sender string, logger types.Logger) *SESClient {
	return &SESClient{
		api:    api,
		sender: sender,
		logger: logger,
	}
}

// Send transmits an email using SES v2 SendEmail with pre-rendered simple
// content.
//
// Error mapping:
//   - TooManyRequestsException -> ErrCodeUpstreamRateLimited (transient)
//   - SendingPausedException -> ErrCodeUpstreamUnavailable (transient)
//   - MessageRejected and everything else -> ErrCodeUpstreamUnavailable
//     marked permanent via ErrCodeInternalUnexpected
func (s *SESClient) Send(ctx context.Context, input notifications.EmailInput) (string, error) {
	out, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.To},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(input.Subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(input.TextBody)},
					Html: &sestypes.Content{Data: aws.String(input.HTMLBody)},
				},
			},
		},
	})
	if err != nil {
		return "", s.mapSendError(err)
	}

	msgID := aws.ToString(out.MessageId)
	s.logger.Info("email accepted by ses",
		"to", input.To,
		"provider_message_id", msgID,
	)
	return msgID, nil
}

// mapSendError translates SES API errors into AppErrors the email channel
// can classify for retry.
func (s *SESClient) mapSendError(err error) error {
	var tooMany *sestypes.TooManyRequestsException
	if errors.As(err, &tooMany) {
		return types.NewAppError(types.ErrCodeUpstreamRateLimited,
			"ses rate limit exceeded", err)
	}

	var paused *sestypes.SendingPausedException
	if errors.As(err, &paused) {
		return types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"ses sending is paused for this account", err)
	}

	var rejected *sestypes.MessageRejected
	if errors.As(err, &rejected) {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			fmt.Sprintf("ses rejected the message: %v", rejected.ErrorMessage()), err)
	}

	return types.NewAppError(types.ErrCodeInternalUnexpected,
		"ses send failed", err)
}
