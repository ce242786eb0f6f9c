package types

import (
	"fmt"
	"math"
	"net/url"
)

// Coordinate validation constraint constants.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0
)

// Clamp01 clamps v to [0,1]. NaN maps to 0. Every probability, favorability,
// and intensity value crosses this function before being returned; callers
// never see NaN or out-of-range values.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate implements the Validator interface for GeoPoint. Non-finite or
// out-of-range coordinates are structurally invalid input and are rejected
// at the boundary; internal logic never sees them.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < MinLat || p.Lat > MaxLat {
		return NewAppError(ErrCodeValidationInvalidLat,
			fmt.Sprintf("latitude %v outside [%v, %v]", p.Lat, MinLat, MaxLat), nil)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < MinLon || p.Lon > MaxLon {
		return NewAppError(ErrCodeValidationInvalidLon,
			fmt.Sprintf("longitude %v outside [%v, %v]", p.Lon, MinLon, MaxLon), nil)
	}
	return nil
}

// Validate implements the Validator interface for UserPreferences.
func (p UserPreferences) Validate() error {
	if p.MinProbability < 0 || p.MinProbability > 1 || math.IsNaN(p.MinProbability) {
		return NewAppError(ErrCodeValidationPreferences,
			fmt.Sprintf("min_probability %v outside [0, 1]", p.MinProbability), nil)
	}
	if p.MaxDistanceKM < 0 || math.IsNaN(p.MaxDistanceKM) {
		return NewAppError(ErrCodeValidationPreferences,
			fmt.Sprintf("max_distance_km %v must be >= 0", p.MaxDistanceKM), nil)
	}
	if p.LeadTimeMinutes < 0 {
		return NewAppError(ErrCodeValidationPreferences,
			fmt.Sprintf("notification_lead_time_minutes %d must be >= 0", p.LeadTimeMinutes), nil)
	}
	for _, loc := range p.FavoriteLocations {
		if err := loc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWebhookURL checks that a URL is acceptable for webhook delivery.
func ValidateWebhookURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return NewAppError(ErrCodeValidationWebhookURL, "invalid URL", err)
	}
	if parsed.Scheme != "https" {
		return NewAppError(ErrCodeValidationWebhookURL, "must use HTTPS", nil)
	}
	if parsed.Host == "" {
		return NewAppError(ErrCodeValidationWebhookURL, "missing host", nil)
	}
	return nil
}
