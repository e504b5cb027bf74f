// Package geo holds the small amount of spherical and planar math the
// simulator needs: great-circle distance, point-in-ring tests and
// distance-weighted interpolation along polylines.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

// Haversine returns the great-circle distance in kilometers between two
// [lon, lat] points.
func Haversine(a, b orb.Point) float64 {
	dLat := deg2rad(b.Lat() - a.Lat())
	dLon := deg2rad(b.Lon() - a.Lon())

	lat1 := deg2rad(a.Lat())
	lat2 := deg2rad(b.Lat())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// PointInRing reports whether p lies inside ring using ray casting: every
// edge whose y-span straddles p and whose crossing lies to the right of p
// toggles the result. Points exactly on an edge may land either way.
func PointInRing(p orb.Point, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	x, y := p[0], p[1]
	inside := false

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}

	return inside
}

// Euclidean is the planar distance between two points in coordinate units.
func Euclidean(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// Lerp linearly interpolates between a and b; t is not clamped.
func Lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
	}
}

// InterpolateLine returns the point at fractional progress along ls.
//
// Two-vertex lines are interpolated directly between their endpoints. Longer
// lines are weighted by cumulative planar vertex distance, so progress maps to
// distance travelled rather than vertex count.
func InterpolateLine(ls orb.LineString, progress float64) orb.Point {
	switch len(ls) {
	case 0:
		return orb.Point{}
	case 1:
		return ls[0]
	case 2:
		return Lerp(ls[0], ls[1], progress)
	}

	legs := make([]float64, len(ls)-1)
	total := 0.0
	for i := 0; i < len(ls)-1; i++ {
		legs[i] = Euclidean(ls[i], ls[i+1])
		total += legs[i]
	}

	target := total * progress
	acc := 0.0
	for i, d := range legs {
		if target <= acc+d {
			if d == 0 {
				return ls[i]
			}
			return Lerp(ls[i], ls[i+1], (target-acc)/d)
		}
		acc += d
	}

	return ls[len(ls)-1]
}
