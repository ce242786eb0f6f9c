package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	texttemplate "text/template"

	"rainbowfinder/internal/types"
)

// EmailProvider is the outbound mail transport. The production implementation
// lives in internal/external (AWS SES); tests use a recording fake.
type EmailProvider interface {
	// Send transmits a rendered email and returns the provider message ID.
	Send(ctx context.Context, input EmailInput) (string, error)
}

// EmailInput carries one fully rendered email.
type EmailInput struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Compile-time assertion that EmailChannel implements types.NotificationChannel.
var _ types.NotificationChannel = (*EmailChannel)(nil)

// EmailChannel renders alert emails client-side and delivers them through an
// EmailProvider. Rendering happens in Format so a template failure is caught
// before the message is handed to the transport.
type EmailChannel struct {
	provider EmailProvider
	logger   types.Logger
}

// NewEmailChannel creates an EmailChannel with the given provider.
func NewEmailChannel(provider EmailProvider, logger types.Logger) *EmailChannel {
	return &EmailChannel{
		provider: provider,
		logger:   logger,
	}
}

// Type returns the channel type identifier for email.
func (e *EmailChannel) Type() types.ChannelType {
	return types.ChannelEmail
}

// emailPayload is the intermediate form passed from Format to Deliver.
type emailPayload struct {
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body"`
}

var subjectTmpl = texttemplate.Must(texttemplate.New("subject").Parse(
	`Rainbow alert: {{printf "%.0f" .ProbabilityPct}}% chance near {{.Place}}`,
))

var textBodyTmpl = texttemplate.Must(texttemplate.New("text").Parse(
	`A {{.Type}} rainbow is predicted near {{.Place}}.

Probability: {{printf "%.0f" .ProbabilityPct}}%
Window:      {{.Start}} to {{.End}} (UTC)
Look toward: {{printf "%.0f" .LookAzimuth}} degrees

Head somewhere with an open view away from the sun.
`))

var htmlBodyTmpl = template.Must(template.New("html").Parse(
	`<h2>Rainbow alert</h2>
<p>A <strong>{{.Type}}</strong> rainbow is predicted near <strong>{{.Place}}</strong>.</p>
<ul>
<li>Probability: {{printf "%.0f" .ProbabilityPct}}%</li>
<li>Window: {{.Start}} to {{.End}} (UTC)</li>
<li>Look toward: {{printf "%.0f" .LookAzimuth}}&deg;</li>
</ul>
`))

// emailView is the data handed to the templates.
type emailView struct {
	Place          string
	Type           types.RainbowType
	ProbabilityPct float64
	Start          string
	End            string
	LookAzimuth    float64
}

// Format renders the subject and bodies for the alert. The result is a JSON
// envelope consumed by Deliver.
func (e *EmailChannel) Format(ctx context.Context, msg *types.AlertMessage) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("email channel: message is nil")
	}

	p := msg.Prediction
	place := p.Location.Name
	if place == "" {
		place = fmt.Sprintf("%.4f, %.4f", p.Location.Lat, p.Location.Lon)
	}

	view := emailView{
		Place:          place,
		Type:           p.Type,
		ProbabilityPct: p.Probability * 100,
		Start:          p.PredictedStart.UTC().Format("15:04"),
		End:            p.PredictedEnd.UTC().Format("15:04"),
		// The bow is centered on the antisolar point.
		LookAzimuth: antisolarAzimuth(p.SunPosition.Azimuth),
	}

	var subject, textBody, htmlBody bytes.Buffer
	if err := subjectTmpl.Execute(&subject, view); err != nil {
		return nil, fmt.Errorf("email channel: render subject: %w", err)
	}
	if err := textBodyTmpl.Execute(&textBody, view); err != nil {
		return nil, fmt.Errorf("email channel: render text body: %w", err)
	}
	if err := htmlBodyTmpl.Execute(&htmlBody, view); err != nil {
		return nil, fmt.Errorf("email channel: render html body: %w", err)
	}

	return json.Marshal(emailPayload{
		Subject:  strings.TrimSpace(subject.String()),
		TextBody: textBody.String(),
		HTMLBody: htmlBody.String(),
	})
}

// Deliver sends the rendered email to the destination address.
func (e *EmailChannel) Deliver(ctx context.Context, payload []byte, destination string) (*types.DeliveryResult, error) {
	if _, err := mail.ParseAddress(destination); err != nil {
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: fmt.Sprintf("invalid_address: %v", err),
			Retryable:     false,
		}, nil
	}

	var p emailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("email deliver: decode payload: %w", err)
	}

	msgID, err := e.provider.Send(ctx, EmailInput{
		To:       destination,
		Subject:  p.Subject,
		TextBody: p.TextBody,
		HTMLBody: p.HTMLBody,
	})
	if err != nil {
		retryable := e.ShouldRetry(err)
		e.logger.Warn("email delivery failed",
			"error", err.Error(),
			"retryable", retryable,
		)
		return &types.DeliveryResult{
			Status:        types.DeliveryStatusFailed,
			FailureReason: err.Error(),
			Retryable:     retryable,
		}, nil
	}

	return &types.DeliveryResult{
		ProviderMessageID: msgID,
		Status:            types.DeliveryStatusSent,
	}, nil
}

// ShouldRetry classifies provider errors. Rate limits and upstream outages
// are transient; rejections are permanent.
func (e *EmailChannel) ShouldRetry(err error) bool {
	var appErr *types.AppError
	if types.AsAppError(err, &appErr) {
		switch appErr.Code {
		case types.ErrCodeUpstreamRateLimited, types.ErrCodeUpstreamUnavailable:
			return true
		}
		return false
	}
	return err != nil
}

// antisolarAzimuth folds an azimuth to its opposite compass direction.
func antisolarAzimuth(az float64) float64 {
	a := az + 180
	for a >= 360 {
		a -= 360
	}
	for a < 0 {
		a += 360
	}
	return a
}
