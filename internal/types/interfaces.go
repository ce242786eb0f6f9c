package types

import (
	"context"
	"time"
)

// Validator is implemented by entities to self-validate.
type Validator interface {
	Validate() error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Logger defines the structured logging interface used throughout the platform.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// WeatherProvider supplies weather observations and forecasts for a location.
// Implementations live at the collaborator boundary; provider faults surface
// as AppError and are converted to input-absence before reaching the core.
type WeatherProvider interface {
	// Current returns the latest observation for the location.
	Current(ctx context.Context, loc GeoPoint) (*WeatherSample, error)

	// Forecast returns hourly samples covering the next `hours` hours,
	// in strict chronological order.
	Forecast(ctx context.Context, loc GeoPoint, hours int) ([]WeatherSample, error)
}

// Geocoder resolves free-text addresses to coordinates and back.
// A miss is an explicit (nil, nil) result, never a zero coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeoPoint, error)
	ReverseGeocode(ctx context.Context, loc GeoPoint) (*GeoPoint, error)
}

// UserStore persists user profiles, preferences, and favorite locations,
// keyed by an opaque user identifier.
type UserStore interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	ListNotifiable(ctx context.Context) ([]UserProfile, error)
	SavePreferences(ctx context.Context, userID string, prefs UserPreferences) error
	AddFavorite(ctx context.Context, userID string, loc GeoPoint) error
	RemoveFavorite(ctx context.Context, userID string, name string) error
}

// NotificationChannel is a delivery mechanism for alert payloads.
// The core decides whether and what to send; channels decide how.
type NotificationChannel interface {
	// Type returns the channel type (e.g., "email", "webhook").
	Type() ChannelType

	// Format transforms an AlertMessage into a channel-specific payload.
	Format(ctx context.Context, msg *AlertMessage) ([]byte, error)

	// Deliver executes the transmission to the given destination.
	Deliver(ctx context.Context, payload []byte, destination string) (*DeliveryResult, error)

	// ShouldRetry inspects an error to determine if it is transient.
	ShouldRetry(err error) bool
}

// AlertPublisher enqueues alert messages for asynchronous delivery.
type AlertPublisher interface {
	Publish(ctx context.Context, msg AlertMessage) error
}
