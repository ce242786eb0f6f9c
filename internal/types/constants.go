package types

import "time"

// Rainbow physics constants. The arc angles are fixed by the refractive
// index of water, not tunable configuration.
const (
	// PrimaryArcAngleDeg is the half-angle of the primary rainbow cone
	// around the antisolar point.
	PrimaryArcAngleDeg = 42.0
	// SecondaryArcAngleDeg is the half-angle of the secondary rainbow cone.
	SecondaryArcAngleDeg = 51.0
	// WaterRefractiveIndex is the refractive index that produces the angles above.
	WaterRefractiveIndex = 1.33

	// MaxSunElevationDeg is the physical visibility bound: above this solar
	// elevation the whole primary arc sits below the horizon.
	MaxSunElevationDeg = 42.0
)

// Weather thresholds gating rainbow formation. These are tunable defaults;
// components take them from atmosphere.Thresholds rather than reading these
// directly, so they can be adjusted without touching logic.
const (
	// MinPrecipitationRateMMH is the minimum rain rate (mm/h) for droplets
	// to be present in the air.
	MinPrecipitationRateMMH = 0.1
	// MaxCloudCoverPct is the cloud cover (percent) beyond which sunlight
	// cannot reach the rain curtain.
	MaxCloudCoverPct = 70.0
)

// Notification defaults applied when a user has no saved preferences.
const (
	DefaultMinProbability       = 0.5
	DefaultNotificationRadiusKM = 10.0
	DefaultLeadTimeMinutes      = 30
)

// Scheduling cadence inherited from the product requirements.
const (
	PredictionUpdateInterval = 5 * time.Minute
	WeatherUpdateInterval    = 15 * time.Minute
)
