package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowfinder/internal/types"
)

type stubChannel struct {
	channelType types.ChannelType
	formatErr   error
	result      *types.DeliveryResult
	deliverErr  error

	delivered []string
}

func (s *stubChannel) Type() types.ChannelType { return s.channelType }

func (s *stubChannel) Format(ctx context.Context, msg *types.AlertMessage) ([]byte, error) {
	if s.formatErr != nil {
		return nil, s.formatErr
	}
	return []byte(`{}`), nil
}

func (s *stubChannel) Deliver(ctx context.Context, payload []byte, destination string) (*types.DeliveryResult, error) {
	if s.deliverErr != nil {
		return nil, s.deliverErr
	}
	s.delivered = append(s.delivered, destination)
	return s.result, nil
}

func (s *stubChannel) ShouldRetry(err error) bool { return err != nil }

type recordingMetrics struct {
	deliveries map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{deliveries: map[string]int{}}
}

func (m *recordingMetrics) RecordDelivery(_ context.Context, ch types.ChannelType, result MetricResult) {
	m.deliveries[string(ch)+"/"+string(result)]++
}
func (m *recordingMetrics) RecordDeliveryLatency(context.Context, types.ChannelType, time.Duration) {
}
func (m *recordingMetrics) RecordPredictionCount(context.Context, int) {}

func sentResult() *types.DeliveryResult {
	return &types.DeliveryResult{Status: types.DeliveryStatusSent, ProviderMessageID: "x"}
}

func manager(metrics Metrics, channels ...types.NotificationChannel) *DeliveryManager {
	return NewDeliveryManager(channels, metrics, fixedClock{t: now}, types.NopLogger{})
}

func TestDispatch_WebhookPreferredOverEmail(t *testing.T) {
	webhook := &stubChannel{channelType: types.ChannelWebhook, result: sentResult()}
	email := &stubChannel{channelType: types.ChannelEmail, result: sentResult()}
	m := manager(NopMetrics{}, webhook, email)

	user := types.UserProfile{
		ID:         "u-1",
		Email:      "viewer@example.com",
		WebhookURL: "https://example.com/hook",
	}

	result, err := m.Dispatch(context.Background(), alertFixture(), user)
	require.NoError(t, err)
	assert.Equal(t, types.DeliveryStatusSent, result.Status)
	assert.Equal(t, []string{"https://example.com/hook"}, webhook.delivered)
	assert.Empty(t, email.delivered)
}

func TestDispatch_FallsBackToEmail(t *testing.T) {
	email := &stubChannel{channelType: types.ChannelEmail, result: sentResult()}
	m := manager(NopMetrics{}, email)

	user := types.UserProfile{ID: "u-1", Email: "viewer@example.com"}

	_, err := m.Dispatch(context.Background(), alertFixture(), user)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer@example.com"}, email.delivered)
}

func TestDispatch_NoDestinationSkips(t *testing.T) {
	metrics := newRecordingMetrics()
	m := manager(metrics, &stubChannel{channelType: types.ChannelEmail, result: sentResult()})

	result, err := m.Dispatch(context.Background(), alertFixture(), types.UserProfile{ID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, types.DeliveryStatusSkipped, result.Status)
	assert.Empty(t, metrics.deliveries)
}

func TestDispatch_MissingChannelIsError(t *testing.T) {
	m := manager(NopMetrics{}) // no channels registered

	user := types.UserProfile{ID: "u-1", Email: "viewer@example.com"}
	_, err := m.Dispatch(context.Background(), alertFixture(), user)
	assert.Error(t, err)
}

func TestDispatch_RecordsOutcomeMetrics(t *testing.T) {
	metrics := newRecordingMetrics()
	failed := &types.DeliveryResult{Status: types.DeliveryStatusFailed, Retryable: true}
	m := manager(metrics, &stubChannel{channelType: types.ChannelEmail, result: failed})

	user := types.UserProfile{ID: "u-1", Email: "viewer@example.com"}
	result, err := m.Dispatch(context.Background(), alertFixture(), user)
	require.NoError(t, err)
	assert.True(t, result.Retryable)
	assert.Equal(t, 1, metrics.deliveries["email/failure"])
}

func TestDispatch_FormatFailureCountsAsFailure(t *testing.T) {
	metrics := newRecordingMetrics()
	broken := &stubChannel{channelType: types.ChannelEmail, formatErr: errors.New("template exploded")}
	m := manager(metrics, broken)

	user := types.UserProfile{ID: "u-1", Email: "viewer@example.com"}
	_, err := m.Dispatch(context.Background(), alertFixture(), user)
	assert.Error(t, err)
	assert.Equal(t, 1, metrics.deliveries["email/failure"])
}
