package predictor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rainbowfinder/internal/types"
)

func sample(precip, cloud float64) types.WeatherSample {
	return types.WeatherSample{PrecipitationMMH: precip, CloudCoverPct: cloud, Timestamp: time.Now()}
}

func sunAt(elev float64) types.SolarPosition {
	return types.SolarPosition{Azimuth: 120, Elevation: elev}
}

func TestProbability_AlwaysInRange(t *testing.T) {
	weathers := []types.WeatherSample{
		sample(0, 0), sample(0.5, 20), sample(5, 100), sample(-3, -50),
		sample(math.NaN(), math.NaN()), sample(1e9, 1e9),
	}
	suns := []types.SolarPosition{
		sunAt(-30), sunAt(0), sunAt(20), sunAt(42), sunAt(90), sunAt(math.NaN()),
	}
	for _, w := range weathers {
		for _, s := range suns {
			p := Probability(w, s)
			assert.False(t, math.IsNaN(p))
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestProbability_PrecipitationMonotoneBelowSaturation(t *testing.T) {
	// Holding cloud and elevation fixed, more rain up to the saturation
	// reference must never decrease probability.
	sun := sunAt(20)
	prev := -1.0
	for precip := 0.0; precip <= PrecipSaturationMMH; precip += 0.05 {
		p := Probability(sample(precip, 30), sun)
		assert.GreaterOrEqual(t, p, prev, "precip %.2f", precip)
		prev = p
	}
}

func TestProbability_SaturatesAtReferenceRate(t *testing.T) {
	sun := sunAt(20)
	atRef := Probability(sample(PrecipSaturationMMH, 30), sun)
	assert.Equal(t, atRef, Probability(sample(5, 30), sun))
	assert.Equal(t, atRef, Probability(sample(50, 30), sun))
}

func TestProbability_CloudCoverMonotone(t *testing.T) {
	// Increasing cloud cover must not increase probability.
	sun := sunAt(20)
	prev := 2.0
	for cloud := 0.0; cloud <= 100; cloud += 5 {
		p := Probability(sample(0.8, cloud), sun)
		assert.LessOrEqual(t, p, prev, "cloud %.0f", cloud)
		prev = p
	}
}

func TestProbability_ElevationSweetSpot(t *testing.T) {
	w := sample(1.0, 0)
	atOptimal := Probability(w, sunAt(OptimalElevationDeg))
	assert.Greater(t, atOptimal, Probability(w, sunAt(5)))
	assert.Greater(t, atOptimal, Probability(w, sunAt(38)))
	assert.Equal(t, 1.0, atOptimal)
}

func TestProbability_ScenarioUpperMiddleBand(t *testing.T) {
	// precipitation 0.5, cloud 20, elevation 20 (optimal): expect > 0.5.
	p := Probability(sample(0.5, 20), sunAt(20))
	assert.Greater(t, p, 0.5)
	assert.Less(t, p, 0.8)
}

func TestProbability_NoPrecipitationDominates(t *testing.T) {
	// precipitation 0, cloud 90: zero regardless of sun position.
	for _, elev := range []float64{-10, 0, 20, 42, 60} {
		assert.Zero(t, Probability(sample(0, 90), sunAt(elev)))
	}
}

func TestProbability_SunTooHighSuppressed(t *testing.T) {
	// Elevation 60 exceeds the physical bound: near zero even in heavy rain.
	assert.Zero(t, Probability(sample(10, 0), sunAt(60)))
}

func TestProbability_SunBelowHorizonIsZero(t *testing.T) {
	assert.Zero(t, Probability(sample(1, 0), sunAt(-5)))
}

func TestIntensity_Range(t *testing.T) {
	assert.Equal(t, 1.0, Intensity(sample(2, 0), sunAt(20)))
	assert.Zero(t, Intensity(sample(2, 0), sunAt(-10)))
	assert.Zero(t, Intensity(sample(0, 0), sunAt(20)))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		w    types.WeatherSample
		sun  types.SolarPosition
		want types.RainbowType
	}{
		{"night is moonbow", sample(1, 10), sunAt(-12), types.RainbowMoonbow},
		{"drizzle with saturated air is fogbow",
			types.WeatherSample{PrecipitationMMH: 0.05, HumidityPct: 99}, sunAt(15), types.RainbowFogbow},
		{"vivid bow brings a secondary", sample(2, 5), sunAt(20), types.RainbowSecondary},
		{"default is primary", sample(0.3, 40), sunAt(25), types.RainbowPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.w, tt.sun))
		})
	}
}
