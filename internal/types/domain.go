package types

import (
	"math"
	"time"
)

// GeoPoint represents a geographic coordinate with optional altitude and
// display name. It is an immutable value; construct it once and pass it
// around by value.
type GeoPoint struct {
	Lat       float64 `json:"lat" db:"lat"`
	Lon       float64 `json:"lon" db:"lon"`
	AltitudeM float64 `json:"altitude_m,omitempty" db:"altitude_m"`
	Name      string  `json:"name,omitempty" db:"name"`
}

// AlmostEqual reports whether two points coincide within the given tolerance
// in degrees. Altitude and name are ignored; equality is numeric only.
func (p GeoPoint) AlmostEqual(other GeoPoint, tolDeg float64) bool {
	return math.Abs(p.Lat-other.Lat) <= tolDeg && math.Abs(p.Lon-other.Lon) <= tolDeg
}

// SolarPosition describes where the sun is in the sky as seen from a single
// location at a single instant. Azimuth is degrees clockwise from true north
// in [0,360); elevation is degrees above the horizon in [-90,90].
type SolarPosition struct {
	Azimuth   float64   `json:"azimuth"`
	Elevation float64   `json:"elevation"`
	Timestamp time.Time `json:"timestamp"`
}

// WeatherSample is one observation or forecast value for a single
// (location, instant). A forecast is an ordered []WeatherSample; chronological
// order is significant and must not be reordered.
//
// Units are fixed: °C, percent, mm/h, km/h, degrees.
type WeatherSample struct {
	TemperatureC     float64   `json:"temperature_c"`
	HumidityPct      float64   `json:"humidity_percent"`
	PrecipitationMMH float64   `json:"precipitation_mmh"`
	CloudCoverPct    float64   `json:"cloud_cover_percent"`
	WindSpeedKmh     float64   `json:"wind_speed_kmh"`
	WindDirectionDeg float64   `json:"wind_direction_deg"`
	Timestamp        time.Time `json:"timestamp"`
}

// DayNightCycle holds the six solar instants for one calendar date, in
// chronological order:
//
//	CivilTwilightBegin <= Sunrise <= GoldenHourEnd <= GoldenHourBegin <= Sunset <= CivilTwilightEnd
//
// Golden hour straddles both ends of the day: GoldenHourEnd is when the
// morning golden hour finishes, GoldenHourBegin is when the evening one starts.
type DayNightCycle struct {
	CivilTwilightBegin time.Time `json:"civil_twilight_begin"`
	Sunrise            time.Time `json:"sunrise"`
	GoldenHourEnd      time.Time `json:"golden_hour_end"`
	GoldenHourBegin    time.Time `json:"golden_hour_begin"`
	Sunset             time.Time `json:"sunset"`
	CivilTwilightEnd   time.Time `json:"civil_twilight_end"`
}

// Polar reports whether the sun never crossed the horizon on this date
// (polar day or polar night). In that case all six instants collapse to
// solar noon and Sunrise equals Sunset.
func (c DayNightCycle) Polar() bool {
	return c.Sunrise.Equal(c.Sunset)
}

// TimeWindow is a contiguous period during which rainbow visibility stays
// above the floor, with the run's peak probability.
type TimeWindow struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Probability float64   `json:"probability"`
}

// RainbowPrediction is the predictor's output for one (location, time) pair.
// It is immutable once produced and owned entirely by the caller; nothing in
// this package persists it.
type RainbowPrediction struct {
	Location         GeoPoint      `json:"location"`
	Probability      float64       `json:"probability"`
	PredictedStart   time.Time     `json:"predicted_time_start"`
	PredictedEnd     time.Time     `json:"predicted_time_end"`
	ViewingLocations []GeoPoint    `json:"viewing_locations"`
	SunPosition      SolarPosition `json:"sun_position"`
	Weather          WeatherSample `json:"weather_condition"`
	Type             RainbowType   `json:"rainbow_type"`
	Intensity        float64       `json:"intensity"`
	ArcCoordinates   []GeoPoint    `json:"arc_coordinates,omitempty"`
}

// UserPreferences controls when a user wants to hear about rainbows.
// The core treats it as a read-only input owned by the user store.
type UserPreferences struct {
	MinProbability      float64    `json:"min_probability" db:"min_probability"`
	MaxDistanceKM       float64    `json:"max_distance_km" db:"max_distance_km"`
	NotificationEnabled bool       `json:"notification_enabled" db:"notification_enabled"`
	FavoriteLocations   []GeoPoint `json:"favorite_locations" db:"-"`
	LeadTimeMinutes     int        `json:"notification_lead_time_minutes" db:"lead_time_minutes"`
}

// DefaultPreferences returns the platform defaults applied when a user has
// never saved preferences.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		MinProbability:      DefaultMinProbability,
		MaxDistanceKM:       DefaultNotificationRadiusKM,
		NotificationEnabled: true,
		LeadTimeMinutes:     DefaultLeadTimeMinutes,
	}
}

// UserProfile is the stored record for a notification recipient, keyed by an
// opaque identifier. Identity and authentication live outside this system.
type UserProfile struct {
	ID          string          `json:"id" db:"id"`
	Email       string          `json:"email,omitempty" db:"email"`
	WebhookURL  string          `json:"webhook_url,omitempty" db:"webhook_url"`
	Preferences UserPreferences `json:"preferences" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// DeliveryResult tracks the outcome of a notification delivery attempt.
type DeliveryResult struct {
	ProviderMessageID string
	Status            DeliveryStatus
	FailureReason     string
	Retryable         bool
}
