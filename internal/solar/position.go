// Package solar computes the sun's apparent position and the daily solar
// event times (twilight, sunrise, golden hour) for an observer location.
//
// The apparent equatorial coordinates come from the Meeus algorithms in
// github.com/soniakeys/meeus; the alt-az transform and hour-angle event
// solver live here. Accuracy is on the order of arcminutes and tens of
// seconds, which is far tighter than the prediction model needs.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"rainbowfinder/internal/types"
)

// normalizeHourAngle maps an angle in radians to (-pi, pi].
func normalizeHourAngle(h float64) float64 {
	h = math.Mod(h, 2*math.Pi)
	if h > math.Pi {
		h -= 2 * math.Pi
	}
	if h <= -math.Pi {
		h += 2 * math.Pi
	}
	return h
}

// Position returns the sun's azimuth and elevation as seen from loc at
// instant t. A zero t defaults to the current time. Azimuth is degrees
// clockwise from true north in [0,360); elevation is degrees above the
// horizon. No atmospheric refraction correction is applied.
func Position(loc types.GeoPoint, t time.Time) types.SolarPosition {
	if t.IsZero() {
		t = time.Now()
	}
	t = t.UTC()
	jd := julian.TimeToJD(t)

	ra, dec := solar.ApparentEquatorial(jd)

	// Local hour angle: Greenwich apparent sidereal time + east longitude - RA.
	gst := sidereal.Apparent(jd).Angle().Rad()
	lon := unit.AngleFromDeg(loc.Lon).Rad()
	lat := unit.AngleFromDeg(loc.Lat).Rad()
	h := normalizeHourAngle(gst + lon - ra.Rad())

	sinDec, cosDec := math.Sincos(dec.Rad())
	sinLat, cosLat := math.Sincos(lat)
	sinH, cosH := math.Sincos(h)

	elevation := math.Asin(sinLat*sinDec + cosLat*cosDec*cosH)

	// Azimuth measured from south, westward positive (Meeus convention),
	// then rotated to compass bearing from north.
	azSouth := math.Atan2(sinH*cosDec, cosH*sinLat*cosDec-sinDec*cosLat)
	azimuth := math.Mod(unit.Angle(azSouth).Deg()+180, 360)
	if azimuth < 0 {
		azimuth += 360
	}

	return types.SolarPosition{
		Azimuth:   azimuth,
		Elevation: unit.Angle(elevation).Deg(),
		Timestamp: t,
	}
}

// Series returns one SolarPosition per input timestamp, preserving order.
// It is the pairing companion to an hourly weather forecast.
func Series(loc types.GeoPoint, timestamps []time.Time) []types.SolarPosition {
	out := make([]types.SolarPosition, len(timestamps))
	for i, ts := range timestamps {
		out[i] = Position(loc, ts)
	}
	return out
}

// transit returns the instant of local solar noon (hour angle zero) on the
// calendar date of t, found by Meeus-style iterative refinement starting
// from the longitude estimate.
func transit(loc types.GeoPoint, date time.Time) time.Time {
	date = date.UTC()
	// Start at 12:00 UTC minus the longitude offset (15 degrees per hour).
	est := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC).
		Add(-time.Duration(loc.Lon / 15 * float64(time.Hour)))

	lon := unit.AngleFromDeg(loc.Lon).Rad()
	for i := 0; i < 3; i++ {
		jd := julian.TimeToJD(est)
		ra, _ := solar.ApparentEquatorial(jd)
		gst := sidereal.Apparent(jd).Angle().Rad()
		h := normalizeHourAngle(gst + lon - ra.Rad())

		// One full hour-angle revolution corresponds to one sidereal day.
		correction := -h / (2 * math.Pi) * float64(24*time.Hour) / 1.0027379
		est = est.Add(time.Duration(correction))
	}
	return est
}
