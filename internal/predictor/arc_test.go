package predictor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowfinder/internal/geo"
	"rainbowfinder/internal/types"
)

var observer = types.GeoPoint{Lat: 47.6062, Lon: -122.3321}

func TestArcCoordinates_LowSunProducesArc(t *testing.T) {
	// Evening sun in the west: arc should appear toward the east.
	sun := types.SolarPosition{Azimuth: 270, Elevation: 10}
	arc := ArcCoordinates(observer, sun)
	require.NotEmpty(t, arc)

	for _, p := range arc {
		brng := geo.Bearing(observer, p)
		// All arc points sit in the eastern half of the sky.
		assert.True(t, brng > 0 && brng < 180, "bearing %.1f not easterly", brng)
	}
}

func TestArcCoordinates_PointsStayNearObserver(t *testing.T) {
	sun := types.SolarPosition{Azimuth: 250, Elevation: 20}
	for _, p := range ArcCoordinates(observer, sun) {
		assert.LessOrEqual(t, geo.Distance(observer, p), rainCurtainKM+0.01)
	}
}

func TestArcCoordinates_ContinuousOrdering(t *testing.T) {
	// Consecutive points must be close together: the sequence is ordered by
	// angular position, not scattered.
	sun := types.SolarPosition{Azimuth: 270, Elevation: 5}
	arc := ArcCoordinates(observer, sun)
	require.Greater(t, len(arc), 10)

	maxStep := rainCurtainKM * 2 * math.Pi * (ArcResolutionDeg / 360) * 3
	for i := 1; i < len(arc); i++ {
		assert.Less(t, geo.Distance(arc[i-1], arc[i]), maxStep,
			"gap between points %d and %d", i-1, i)
	}
}

func TestArcCoordinates_SunTooHighIsEmpty(t *testing.T) {
	// Above 42 degrees the whole primary arc is below the horizon.
	sun := types.SolarPosition{Azimuth: 180, Elevation: 50}
	assert.Empty(t, ArcCoordinates(observer, sun))
}

func TestArcCoordinates_LowerSunMeansTallerArc(t *testing.T) {
	low := ArcCoordinates(observer, types.SolarPosition{Azimuth: 270, Elevation: 2})
	high := ArcCoordinates(observer, types.SolarPosition{Azimuth: 270, Elevation: 35})
	assert.Greater(t, len(low), len(high))
}

func TestSecondaryArc_WiderThanPrimary(t *testing.T) {
	sun := types.SolarPosition{Azimuth: 270, Elevation: 10}
	primary := ArcCoordinates(observer, sun)
	secondary := SecondaryArcCoordinates(observer, sun)
	require.NotEmpty(t, primary)
	require.NotEmpty(t, secondary)
	assert.Greater(t, len(secondary), len(primary))
}

func TestArcCoordinates_DegenerateInputs(t *testing.T) {
	assert.Nil(t, ArcCoordinates(observer, types.SolarPosition{Azimuth: math.NaN(), Elevation: 10}))
	assert.Empty(t, ArcCoordinates(observer, types.SolarPosition{Azimuth: 100, Elevation: 90}))
}
