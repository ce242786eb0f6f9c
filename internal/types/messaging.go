package types

import "time"

// AlertMessage is the SQS payload sent from the predictor worker to the
// notifier worker. This is the contract between the two; changes here must
// stay backward compatible with in-flight messages.
type AlertMessage struct {
	MessageID string    `json:"message_id"`
	TraceID   string    `json:"trace_id"`
	UserID    string    `json:"user_id"`
	EventType EventType `json:"event_type"`

	Prediction RainbowPrediction `json:"prediction"`

	// NotifyAt is PredictedStart minus the user's lead time. The notifier
	// delivers immediately if NotifyAt has already passed.
	NotifyAt time.Time `json:"notify_at"`

	Ordering OrderingMetadata `json:"ordering"`
}

// OrderingMetadata provides sequencing information so the notifier can drop
// stale revisions of the same alert.
type OrderingMetadata struct {
	ForecastTimestamp time.Time `json:"forecast_timestamp"`
	EvalTimestamp     time.Time `json:"eval_timestamp"`
}
