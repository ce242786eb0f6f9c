// Package geo provides the spherical-geometry primitives the predictor is
// built on: great-circle distance, initial bearing, and destination point.
//
// All exported functions take and return degrees; conversion to radians is
// this package's exclusive responsibility. No caller should pass radians.
package geo

import (
	"math"

	"rainbowfinder/internal/types"
)

// EarthRadiusKM is the mean Earth radius used for the spherical approximation.
const EarthRadiusKM = 6371.0

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// normalizeBearing maps an angle in degrees to [0,360).
func normalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Distance returns the great-circle distance between p1 and p2 in kilometers
// using the haversine formula. It is symmetric and returns exactly zero for
// coincident points.
func Distance(p1, p2 types.GeoPoint) float64 {
	if p1.Lat == p2.Lat && p1.Lon == p2.Lon {
		return 0
	}

	lat1 := degToRad(p1.Lat)
	lat2 := degToRad(p2.Lat)
	dLat := degToRad(p2.Lat - p1.Lat)
	dLon := degToRad(p2.Lon - p1.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Guard against floating error pushing a marginally above 1 for
	// near-antipodal points.
	if a > 1 {
		a = 1
	}

	return 2 * EarthRadiusKM * math.Asin(math.Sqrt(a))
}

// Bearing returns the initial compass bearing in degrees [0,360) from p1
// toward p2 along the great circle. 0 is due north, 90 due east. The
// degenerate case Bearing(p, p) is defined as 0.
func Bearing(p1, p2 types.GeoPoint) float64 {
	if p1.Lat == p2.Lat && p1.Lon == p2.Lon {
		return 0
	}

	lat1 := degToRad(p1.Lat)
	lat2 := degToRad(p2.Lat)
	dLon := degToRad(p2.Lon - p1.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return normalizeBearing(radToDeg(math.Atan2(y, x)))
}

// Destination returns the point reached by traveling distanceKM kilometers
// from start along the given initial bearing. It is inverse-consistent with
// Distance and Bearing up to floating precision:
//
//	Distance(start, Destination(start, Bearing(start, p), Distance(start, p))) ~= 0
func Destination(start types.GeoPoint, bearingDeg, distanceKM float64) types.GeoPoint {
	lat1 := degToRad(start.Lat)
	lon1 := degToRad(start.Lon)
	brng := degToRad(bearingDeg)
	angular := distanceKM / EarthRadiusKM

	sinLat1 := math.Sin(lat1)
	cosLat1 := math.Cos(lat1)
	sinAng := math.Sin(angular)
	cosAng := math.Cos(angular)

	sinLat2 := sinLat1*cosAng + cosLat1*sinAng*math.Cos(brng)
	lat2 := math.Asin(sinLat2)

	y := math.Sin(brng) * sinAng * cosLat1
	x := cosAng - sinLat1*sinLat2
	lon2 := lon1 + math.Atan2(y, x)

	// Normalize longitude to [-180, 180).
	lonDeg := math.Mod(radToDeg(lon2)+540, 360) - 180

	return types.GeoPoint{Lat: radToDeg(lat2), Lon: lonDeg}
}
