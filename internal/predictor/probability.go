// Package predictor implements the rainbow visibility engine: it combines a
// weather sample, the sun's position, and the observer's location into a
// probability, an arc geometry, visibility time windows, and ranked viewing
// locations.
//
// Every function here is a pure, synchronous computation over its arguments.
// There is no shared state and no I/O; calls are safe from any number of
// goroutines. Malformed or missing input degrades to a zero contribution
// and a lower probability; nothing in this package returns an error.
package predictor

import (
	"math"

	"rainbowfinder/internal/types"
)

// Model coefficients. The factor shapes (saturating precipitation, linear
// clear-sky, peaked elevation) are fixed; these constants tune them.
const (
	// PrecipSaturationMMH is the rain rate at which the precipitation factor
	// reaches 1.0. More rain beyond this does not increase probability.
	PrecipSaturationMMH = 1.0

	// OptimalElevationDeg is the solar elevation producing the fullest,
	// most visible arc.
	OptimalElevationDeg = 20.0

	// ElevationFalloffDeg is the distance from the optimum at which the
	// elevation factor reaches zero.
	ElevationFalloffDeg = 25.0

	// SecondaryIntensityFloor is the intensity above which a secondary bow
	// is expected alongside the primary.
	SecondaryIntensityFloor = 0.75
)

// Probability estimates the chance of a visible rainbow for the given
// weather and sun position, as the product of three independently tunable
// factors, clamped to [0,1]:
//
//   - precipitation factor: saturating at PrecipSaturationMMH
//   - clear-sky factor: 1 - cloud/100
//   - elevation factor: peaked at OptimalElevationDeg, zero at or below the
//     horizon and above the physical 42-degree bound
//
// Missing or malformed fields (NaN, negatives) contribute zero rather than
// failing; the result is always a well-formed value in [0,1].
func Probability(w types.WeatherSample, sun types.SolarPosition) float64 {
	p := precipitationFactor(w.PrecipitationMMH) *
		clearSkyFactor(w.CloudCoverPct) *
		elevationFactor(sun.Elevation)
	return types.Clamp01(p)
}

// Intensity estimates how bright the bow would appear: heavy rain behind the
// observer and open sky toward the sun make a vivid arc.
func Intensity(w types.WeatherSample, sun types.SolarPosition) float64 {
	if elevationFactor(sun.Elevation) == 0 {
		return 0
	}
	return types.Clamp01(precipitationFactor(w.PrecipitationMMH) * clearSkyFactor(w.CloudCoverPct))
}

// Classify picks the most prominent phenomenon for the conditions.
// Supernumerary bows depend on droplet-size distributions no forecast
// carries, so they are never predicted.
func Classify(w types.WeatherSample, sun types.SolarPosition) types.RainbowType {
	switch {
	case sun.Elevation < 0:
		// Only lunar light is available; any bow would be a moonbow.
		return types.RainbowMoonbow
	case w.PrecipitationMMH > 0 && w.PrecipitationMMH < types.MinPrecipitationRateMMH && w.HumidityPct >= 97:
		// Suspended droplets without measurable rain: fog, not a rain curtain.
		return types.RainbowFogbow
	case Intensity(w, sun) >= SecondaryIntensityFloor:
		return types.RainbowSecondary
	default:
		return types.RainbowPrimary
	}
}

// precipitationFactor rises with rain rate and saturates at 1.0 once the
// rate reaches PrecipSaturationMMH. The square root keeps light rain from
// being discounted too harshly while preserving monotonicity.
func precipitationFactor(mmh float64) float64 {
	if math.IsNaN(mmh) || mmh <= 0 {
		return 0
	}
	return math.Sqrt(types.Clamp01(mmh / PrecipSaturationMMH))
}

// clearSkyFactor is strictly decreasing in cloud cover: less cloud is
// always better.
func clearSkyFactor(cloudPct float64) float64 {
	return types.Clamp01(1 - cloudPct/100)
}

// elevationFactor peaks at OptimalElevationDeg and decays linearly with
// distance from it. Below the horizon there is no sunlight; above the
// 42-degree bound the whole primary arc sits below the horizon.
func elevationFactor(elevDeg float64) float64 {
	if math.IsNaN(elevDeg) || elevDeg <= 0 || elevDeg > types.MaxSunElevationDeg {
		return 0
	}
	return types.Clamp01(1 - math.Abs(elevDeg-OptimalElevationDeg)/ElevationFalloffDeg)
}
