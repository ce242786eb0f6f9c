package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rainbowfinder/internal/types"
)

var (
	london       = types.GeoPoint{Lat: 51.5074, Lon: -0.1278}
	quito        = types.GeoPoint{Lat: -0.1807, Lon: -78.4678}
	longyearbyen = types.GeoPoint{Lat: 78.2232, Lon: 15.6267}
)

func TestPosition_EquatorEquinoxNoon(t *testing.T) {
	// Around the March equinox the sun passes nearly overhead at the equator
	// at local solar noon. 12:00 UTC at lon 0.
	pos := Position(types.GeoPoint{Lat: 0, Lon: 0}, time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))
	assert.Greater(t, pos.Elevation, 85.0)
}

func TestPosition_LondonSummerNoon(t *testing.T) {
	// Summer solstice, solar noon at Greenwich: elevation near
	// 90 - 51.5 + 23.44 = 61.9 degrees, azimuth near due south.
	pos := Position(london, time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC))
	assert.InDelta(t, 61.9, pos.Elevation, 1.5)
	assert.InDelta(t, 180, pos.Azimuth, 6)
}

func TestPosition_NightIsBelowHorizon(t *testing.T) {
	pos := Position(london, time.Date(2026, 1, 15, 0, 30, 0, 0, time.UTC))
	assert.Negative(t, pos.Elevation)
}

func TestPosition_MorningSunIsEasterly(t *testing.T) {
	pos := Position(london, time.Date(2026, 6, 21, 6, 0, 0, 0, time.UTC))
	assert.Greater(t, pos.Azimuth, 45.0)
	assert.Less(t, pos.Azimuth, 135.0)
	assert.Positive(t, pos.Elevation)
}

func TestPosition_AzimuthRange(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		pos := Position(quito, time.Date(2026, 9, 10, hour, 0, 0, 0, time.UTC))
		assert.GreaterOrEqual(t, pos.Azimuth, 0.0)
		assert.Less(t, pos.Azimuth, 360.0)
		assert.GreaterOrEqual(t, pos.Elevation, -90.0)
		assert.LessOrEqual(t, pos.Elevation, 90.0)
	}
}

func TestPosition_ZeroTimeDefaultsToNow(t *testing.T) {
	before := time.Now().Add(-time.Minute)
	pos := Position(london, time.Time{})
	after := time.Now().Add(time.Minute)
	assert.True(t, pos.Timestamp.After(before) && pos.Timestamp.Before(after))
}

func TestSeries_PreservesOrderAndLength(t *testing.T) {
	base := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}

	series := Series(london, stamps)
	assert.Len(t, series, 3)
	for i, pos := range series {
		assert.Equal(t, stamps[i], pos.Timestamp)
	}
}

func TestCycle_LondonSummer(t *testing.T) {
	// Reference: 2026-06-21 London sunrise ~03:43 UTC, sunset ~20:22 UTC.
	cycle := Cycle(london, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC))

	assert.False(t, cycle.Polar())
	assert.InDelta(t, 3.7, hoursUTC(cycle.Sunrise), 0.4)
	assert.InDelta(t, 20.35, hoursUTC(cycle.Sunset), 0.4)
}

func TestCycle_ChronologicalOrder(t *testing.T) {
	locations := []types.GeoPoint{london, quito, {Lat: -33.8688, Lon: 151.2093}}
	dates := []time.Time{
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC),
	}
	for _, loc := range locations {
		for _, date := range dates {
			c := Cycle(loc, date)
			assert.False(t, c.Sunrise.Before(c.CivilTwilightBegin), "%+v %v", loc, date)
			assert.False(t, c.GoldenHourEnd.Before(c.Sunrise), "%+v %v", loc, date)
			assert.False(t, c.GoldenHourBegin.Before(c.GoldenHourEnd), "%+v %v", loc, date)
			assert.False(t, c.Sunset.Before(c.GoldenHourBegin), "%+v %v", loc, date)
			assert.False(t, c.CivilTwilightEnd.Before(c.Sunset), "%+v %v", loc, date)
		}
	}
}

func TestCycle_PolarDaySentinel(t *testing.T) {
	// Midsummer in Svalbard: the sun never sets.
	c := Cycle(longyearbyen, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC))
	assert.True(t, c.Polar())
	assert.Equal(t, c.Sunrise, c.Sunset)
}

func TestCycle_PolarNightSentinel(t *testing.T) {
	// Midwinter in Svalbard: the sun never rises.
	c := Cycle(longyearbyen, time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC))
	assert.True(t, c.Polar())
	assert.Equal(t, c.CivilTwilightBegin, c.CivilTwilightEnd)
}

func hoursUTC(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
