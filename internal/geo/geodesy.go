package geo

import (
	"math"

	"github.com/golang/geo/s1"
)

// EarthRadius is the spherical Earth radius used for geodesy, in meters.
const EarthRadius = 6371000.0

// EquatorCircumference is used for the equirectangular ground corners.
const EquatorCircumference = 2 * math.Pi * 6378137.0

func radians(deg float64) float64 { return (s1.Angle(deg) * s1.Degree).Radians() }
func degrees(rad float64) float64 { return (s1.Angle(rad) * s1.Radian).Degrees() }

// Distance returns the haversine great-circle distance between p1 and p2 in meters.
// The formula is symmetric in its arguments.
func Distance(p1, p2 GeoPoint) float64 {
	φ1 := radians(p1.Lat)
	φ2 := radians(p2.Lat)
	Δφ := radians(p2.Lat - p1.Lat)
	Δλ := radians(p2.Long - p1.Long)

	sinΔφ := math.Sin(Δφ / 2)
	sinΔλ := math.Sin(Δλ / 2)
	a := sinΔφ*sinΔφ + math.Cos(φ1)*math.Cos(φ2)*sinΔλ*sinΔλ
	// rounding can push a just past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// Move offsets origin by southMeters along the meridian and eastMeters along
// the parallel. A negative southMeters moves north. The east offset is scaled
// by the cosine of the mean of the origin and destination latitudes.
func Move(origin GeoPoint, southMeters, eastMeters float64) GeoPoint {
	lat := origin.Lat - degrees(southMeters/EarthRadius)

	meanLat := radians((origin.Lat + lat) / 2)
	long := origin.Long + degrees(eastMeters/(EarthRadius*math.Cos(meanLat)))

	return GeoPoint{Lat: lat, Long: long}
}

// Project moves origin by meters along bearing, where bearing is measured in
// degrees counter-clockwise from east.
func Project(origin GeoPoint, meters, bearing float64) GeoPoint {
	if meters == 0 {
		return origin
	}
	b := radians(bearing)
	return Move(origin, -meters*math.Sin(b), meters*math.Cos(b))
}

// Bearing returns the initial great-circle bearing from p1 to p2 in degrees
// counter-clockwise from east, normalised to [0, 360).
func Bearing(p1, p2 GeoPoint) float64 {
	φ1 := radians(p1.Lat)
	φ2 := radians(p2.Lat)
	Δλ := radians(p2.Long - p1.Long)

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	azimuth := degrees(math.Atan2(y, x)) // clockwise from north

	return normalizeDegrees(90 - azimuth)
}

// normalizeDegrees maps a to [0, 360).
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
