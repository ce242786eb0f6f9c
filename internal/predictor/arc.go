package predictor

import (
	"math"

	"rainbowfinder/internal/geo"
	"rainbowfinder/internal/types"
)

const (
	// ArcResolutionDeg is the fixed angular step between consecutive arc
	// points, measured along the cone.
	ArcResolutionDeg = 2.0

	// rainCurtainKM is the nominal slant distance from the observer to the
	// rain curtain the bow appears against. The arc is an optical phenomenon
	// with no true ground position; this projects it onto map coordinates at
	// a typical shower distance.
	rainCurtainKM = 3.0
)

// ArcCoordinates traces the primary rainbow arc (42-degree cone) for an
// observer, as an ordered sequence of ground points. See ArcForAngle.
func ArcCoordinates(observer types.GeoPoint, sun types.SolarPosition) []types.GeoPoint {
	return ArcForAngle(observer, sun, types.PrimaryArcAngleDeg)
}

// SecondaryArcCoordinates traces the secondary bow (51-degree cone).
func SecondaryArcCoordinates(observer types.GeoPoint, sun types.SolarPosition) []types.GeoPoint {
	return ArcForAngle(observer, sun, types.SecondaryArcAngleDeg)
}

// ArcForAngle computes the locus of points forming the visible rainbow arc:
// a cone of the given half-angle centered on the antisolar point (opposite
// the sun's azimuth, elevation = -sun elevation). Points are stepped at
// ArcResolutionDeg along the cone, kept only while above the horizon, ordered
// by angular position from one horizon end of the arc to the other, and
// projected onto ground coordinates at the nominal rain-curtain distance.
//
// The sequence is empty when no part of the arc clears the horizon (sun too
// high) or when the geometry degenerates (sun at the zenith or nadir).
func ArcForAngle(observer types.GeoPoint, sun types.SolarPosition, coneDeg float64) []types.GeoPoint {
	if math.IsNaN(sun.Azimuth) || math.IsNaN(sun.Elevation) {
		return nil
	}

	// Antisolar direction in local east/north/up coordinates.
	antiAz := degToRad(math.Mod(sun.Azimuth+180, 360))
	antiElev := degToRad(-sun.Elevation)
	ax := math.Cos(antiElev) * math.Sin(antiAz)
	ay := math.Cos(antiElev) * math.Cos(antiAz)
	az := math.Sin(antiElev)

	// Horizontal right vector perpendicular to the antisolar direction.
	// Degenerates when the antisolar point is at the zenith or nadir.
	hx, hy := ay, -ax
	hNorm := math.Hypot(hx, hy)
	if hNorm < 1e-9 {
		return nil
	}
	hx /= hNorm
	hy /= hNorm

	// Completes the basis, oriented upward so the sweep angle zero lands on
	// the top of the arc and the visible run is contiguous.
	ux := az * hy
	uy := -az * hx
	uz := ay*hx - ax*hy

	sinCone := math.Sin(degToRad(coneDeg))
	cosCone := math.Cos(degToRad(coneDeg))

	var arc []types.GeoPoint
	// Sweep the full cone; the horizon filter keeps the visible half.
	for deg := -180.0; deg <= 180.0; deg += ArcResolutionDeg {
		psi := degToRad(deg)
		sinPsi, cosPsi := math.Sin(psi), math.Cos(psi)

		dx := ax*cosCone + (hx*sinPsi+ux*cosPsi)*sinCone
		dy := ay*cosCone + (hy*sinPsi+uy*cosPsi)*sinCone
		dz := az*cosCone + uz*cosPsi*sinCone

		elev := math.Asin(clampUnit(dz))
		if elev <= 0 {
			continue
		}

		azDeg := radToDeg(math.Atan2(dx, dy))
		if azDeg < 0 {
			azDeg += 360
		}

		groundKM := rainCurtainKM * math.Cos(elev)
		arc = append(arc, geo.Destination(observer, azDeg, groundKM))
	}
	return arc
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// clampUnit guards Asin against floating error just outside [-1,1].
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
