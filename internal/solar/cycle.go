package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"rainbowfinder/internal/types"
)

// Geometric altitudes (degrees) defining the daily solar events.
const (
	// sunriseAltitudeDeg accounts for refraction and the solar disc radius.
	sunriseAltitudeDeg = -0.833
	// civilTwilightAltitudeDeg is the standard civil twilight depression.
	civilTwilightAltitudeDeg = -6.0
	// goldenHourAltitudeDeg is the altitude below which light stays warm and low.
	goldenHourAltitudeDeg = 6.0
)

// Cycle returns the six solar instants for loc on the calendar date of date,
// in chronological order:
//
//	CivilTwilightBegin <= Sunrise <= GoldenHourEnd <= GoldenHourBegin <= Sunset <= CivilTwilightEnd
//
// Polar edge case: when the sun never crosses the sunrise altitude on this
// date (polar day or night), all six instants collapse to solar noon, so
// Sunrise equals Sunset and DayNightCycle.Polar() reports true.
func Cycle(loc types.GeoPoint, date time.Time) types.DayNightCycle {
	if date.IsZero() {
		date = time.Now()
	}
	noon := transit(loc, date)

	sunrise, sunset, ok := eventTimes(loc, noon, sunriseAltitudeDeg)
	if !ok {
		// Sun never crossed the horizon: sentinel cycle pinned to solar noon.
		return types.DayNightCycle{
			CivilTwilightBegin: noon,
			Sunrise:            noon,
			GoldenHourEnd:      noon,
			GoldenHourBegin:    noon,
			Sunset:             noon,
			CivilTwilightEnd:   noon,
		}
	}

	// Civil twilight fails only when the sun never dips below -6 degrees
	// (bright polar summer nights); fall back to sunrise/sunset.
	ctBegin, ctEnd, ok := eventTimes(loc, noon, civilTwilightAltitudeDeg)
	if !ok {
		ctBegin, ctEnd = sunrise, sunset
	}

	// Golden hour fails when the sun never climbs above +6 degrees (high
	// latitude winter); the morning and evening golden hours then meet at noon.
	ghEnd, ghBegin, ok := eventTimes(loc, noon, goldenHourAltitudeDeg)
	if !ok {
		ghEnd, ghBegin = noon, noon
	}

	return types.DayNightCycle{
		CivilTwilightBegin: ctBegin,
		Sunrise:            sunrise,
		GoldenHourEnd:      ghEnd,
		GoldenHourBegin:    ghBegin,
		Sunset:             sunset,
		CivilTwilightEnd:   ctEnd,
	}
}

// eventTimes solves the hour-angle equation for the instants when the sun
// crosses altitudeDeg on either side of the given solar noon. Returns
// ok=false when the sun never crosses that altitude on this date.
func eventTimes(loc types.GeoPoint, noon time.Time, altitudeDeg float64) (morning, evening time.Time, ok bool) {
	jd := julian.TimeToJD(noon)
	_, dec := solar.ApparentEquatorial(jd)

	lat := unit.AngleFromDeg(loc.Lat).Rad()
	sinAlt := math.Sin(unit.AngleFromDeg(altitudeDeg).Rad())
	sinDec, cosDec := math.Sincos(dec.Rad())
	sinLat, cosLat := math.Sincos(lat)

	cosH := (sinAlt - sinLat*sinDec) / (cosLat * cosDec)
	if cosH < -1 || cosH > 1 {
		return time.Time{}, time.Time{}, false
	}

	// Half-arc duration from noon to the crossing, at the mean solar rate.
	halfArc := time.Duration(math.Acos(cosH) / (2 * math.Pi) * float64(24*time.Hour))
	return noon.Add(-halfArc), noon.Add(halfArc), true
}
