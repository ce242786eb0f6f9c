package types

// RainbowType classifies the optical phenomenon a prediction refers to.
type RainbowType string

const (
	RainbowPrimary       RainbowType = "primary"
	RainbowSecondary     RainbowType = "secondary"
	RainbowSupernumerary RainbowType = "supernumerary"
	RainbowFogbow        RainbowType = "fogbow"
	RainbowMoonbow       RainbowType = "moonbow"
)

// EventType identifies the kind of notification event.
type EventType string

const (
	// EventRainbowAlert is the first notification for a predicted window.
	EventRainbowAlert EventType = "rainbow_alert"
	// EventRainbowUpdate revises an earlier alert (probability or timing moved).
	EventRainbowUpdate EventType = "rainbow_update"
	// EventSystemTest is used by delivery-channel validation, never by the predictor.
	EventSystemTest EventType = "system_test"
)

// ChannelType identifies a notification delivery channel.
type ChannelType string

const (
	ChannelEmail   ChannelType = "email"
	ChannelWebhook ChannelType = "webhook"
)

// DeliveryStatus enumerates the states of a notification delivery attempt.
type DeliveryStatus string

const (
	DeliveryStatusPending  DeliveryStatus = "pending"
	DeliveryStatusSent     DeliveryStatus = "sent"
	DeliveryStatusFailed   DeliveryStatus = "failed"
	DeliveryStatusRetrying DeliveryStatus = "retrying"
	DeliveryStatusSkipped  DeliveryStatus = "skipped"
)

// CloudWatch metric names and dimensions shared by workers.
const (
	MetricNamespace       = "RainbowFinder"
	MetricDeliveryAttempt = "DeliveryAttempt"
	MetricPredictionCount = "PredictionsComputed"
	DimChannel            = "Channel"
	DimResult             = "Result"
)
