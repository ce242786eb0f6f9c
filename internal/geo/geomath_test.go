package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowfinder/internal/types"
)

var (
	london   = types.GeoPoint{Lat: 51.5074, Lon: -0.1278}
	paris    = types.GeoPoint{Lat: 48.8566, Lon: 2.3522}
	honolulu = types.GeoPoint{Lat: 21.3069, Lon: -157.8583}
	sydney   = types.GeoPoint{Lat: -33.8688, Lon: 151.2093}
)

func TestDistance_KnownPairs(t *testing.T) {
	// Reference values computed with the haversine formula at R=6371 km.
	assert.InDelta(t, 343.6, Distance(london, paris), 1.0)
	assert.InDelta(t, 8161, Distance(honolulu, sydney), 25)
}

func TestDistance_Symmetry(t *testing.T) {
	points := []types.GeoPoint{london, paris, honolulu, sydney, {Lat: 0, Lon: 0}, {Lat: 89.9, Lon: 170}}
	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
		}
	}
}

func TestDistance_ZeroForCoincidentPoints(t *testing.T) {
	assert.Zero(t, Distance(london, london))
	assert.Zero(t, Distance(types.GeoPoint{}, types.GeoPoint{}))
}

func TestDistance_AntipodalDoesNotNaN(t *testing.T) {
	a := types.GeoPoint{Lat: 0, Lon: 0}
	b := types.GeoPoint{Lat: 0, Lon: 180}
	d := Distance(a, b)
	require.False(t, math.IsNaN(d))
	// Half the Earth's circumference.
	assert.InDelta(t, math.Pi*EarthRadiusKM, d, 1.0)
}

func TestBearing_CardinalDirections(t *testing.T) {
	origin := types.GeoPoint{Lat: 0, Lon: 0}

	assert.InDelta(t, 0, Bearing(origin, types.GeoPoint{Lat: 1, Lon: 0}), 1e-6)
	assert.InDelta(t, 90, Bearing(origin, types.GeoPoint{Lat: 0, Lon: 1}), 1e-6)
	assert.InDelta(t, 180, Bearing(origin, types.GeoPoint{Lat: -1, Lon: 0}), 1e-6)
	assert.InDelta(t, 270, Bearing(origin, types.GeoPoint{Lat: 0, Lon: -1}), 1e-6)
}

func TestBearing_DegenerateIsZero(t *testing.T) {
	assert.Zero(t, Bearing(paris, paris))
}

func TestBearing_Range(t *testing.T) {
	points := []types.GeoPoint{london, paris, honolulu, sydney}
	for _, a := range points {
		for _, b := range points {
			if a == b {
				continue
			}
			brng := Bearing(a, b)
			assert.GreaterOrEqual(t, brng, 0.0)
			assert.Less(t, brng, 360.0)
		}
	}
}

func TestDestination_RoundTrip(t *testing.T) {
	// distance(a, destination(a, bearing(a,b), distance(a,b))) ~= 0
	pairs := [][2]types.GeoPoint{
		{london, paris},
		{paris, honolulu},
		{honolulu, sydney},
		{sydney, london},
	}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		d := Distance(a, b)
		brng := Bearing(a, b)
		back := Destination(a, brng, d)
		assert.InDelta(t, 0, Distance(b, back), 0.01,
			"round trip from %+v to %+v drifted", a, b)
	}
}

func TestDestination_DistanceConsistency(t *testing.T) {
	for _, dist := range []float64{0.5, 10, 100, 2500} {
		for _, brng := range []float64{0, 45, 133.7, 270, 359} {
			dest := Destination(london, brng, dist)
			assert.InDelta(t, dist, Distance(london, dest), dist*1e-6+1e-6)
		}
	}
}

func TestDestination_LongitudeWraparound(t *testing.T) {
	// Travel east across the antimeridian.
	start := types.GeoPoint{Lat: 0, Lon: 179.5}
	dest := Destination(start, 90, 120)
	assert.GreaterOrEqual(t, dest.Lon, -180.0)
	assert.Less(t, dest.Lon, 180.0)
	assert.Negative(t, dest.Lon)
}
