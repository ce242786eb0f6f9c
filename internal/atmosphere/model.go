// Package atmosphere converts raw weather samples into a rainbow-favorability
// signal. The predicate here documents the physical pre-condition for any
// rainbow to exist at all: water droplets in the air with enough open sky
// for sunlight to reach them.
package atmosphere

import "rainbowfinder/internal/types"

// Thresholds holds the tunable weather limits gating rainbow formation.
// Fields are taken literally: a zero MaxCloudCoverPct admits only a
// cloud-free sky, and a zero MinPrecipitationMMH accepts any rain at all.
// Start from DefaultThresholds to override a single limit.
type Thresholds struct {
	// MinPrecipitationMMH is the minimum rain rate for droplets to be present.
	MinPrecipitationMMH float64
	// MaxCloudCoverPct is the cloud cover above which direct sunlight is blocked.
	MaxCloudCoverPct float64
}

// NewThresholds builds Thresholds from explicit limits.
func NewThresholds(minPrecipitationMMH, maxCloudCoverPct float64) Thresholds {
	return Thresholds{
		MinPrecipitationMMH: minPrecipitationMMH,
		MaxCloudCoverPct:    maxCloudCoverPct,
	}
}

// DefaultThresholds returns the platform default thresholds.
func DefaultThresholds() Thresholds {
	return NewThresholds(types.MinPrecipitationRateMMH, types.MaxCloudCoverPct)
}

// Favorable reports whether the sample meets the physical pre-conditions for
// a rainbow: precipitation at or above the minimum rate AND cloud cover at or
// below the maximum. It is a pure threshold predicate; the graded probability
// lives in the predictor package.
func (t Thresholds) Favorable(w types.WeatherSample) bool {
	return w.PrecipitationMMH >= t.MinPrecipitationMMH && w.CloudCoverPct <= t.MaxCloudCoverPct
}

// Favorable applies the default thresholds.
func Favorable(w types.WeatherSample) bool {
	return DefaultThresholds().Favorable(w)
}
