package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func TestHaversine(t *testing.T) {
	seoul := orb.Point{126.978, 37.5665}
	busan := orb.Point{129.0756, 35.1796}

	d := Haversine(seoul, busan)
	if d < 320 || d > 330 {
		t.Fatalf("seoul->busan = %.2f km, want ~325 km", d)
	}

	if got := Haversine(seoul, seoul); got != 0 {
		t.Fatalf("distance to self = %v, want 0", got)
	}

	if back := Haversine(busan, seoul); math.Abs(back-d) > 1e-9 {
		t.Fatalf("haversine not symmetric: %v vs %v", d, back)
	}
}

func TestPointInRing(t *testing.T) {
	square := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}

	cases := []struct {
		name string
		p    orb.Point
		want bool
	}{
		{"center", orb.Point{5, 5}, true},
		{"near corner inside", orb.Point{0.1, 9.9}, true},
		{"left of ring", orb.Point{-1, 5}, false},
		{"above ring", orb.Point{5, 11}, false},
		{"far away", orb.Point{100, 100}, false},
	}

	for _, tc := range cases {
		if got := PointInRing(tc.p, square); got != tc.want {
			t.Errorf("%s: PointInRing(%v) = %v, want %v", tc.name, tc.p, got, tc.want)
		}
	}

	// Concave "U" shape: the notch is outside.
	u := orb.Ring{{0, 0}, {9, 0}, {9, 9}, {6, 9}, {6, 3}, {3, 3}, {3, 9}, {0, 9}, {0, 0}}
	if PointInRing(orb.Point{4.5, 6}, u) {
		t.Fatalf("point in notch reported inside")
	}
	if !PointInRing(orb.Point{1.5, 6}, u) {
		t.Fatalf("point in left arm reported outside")
	}

	for _, p := range []orb.Point{{1, 1}, {4.5, 1}, {4.5, 6}, {7.5, 8}, {10, 5}, {-2, -2}} {
		if got, want := PointInRing(p, u), planar.RingContains(u, p); got != want {
			t.Errorf("PointInRing(%v) = %v, planar.RingContains = %v", p, got, want)
		}
	}

	if PointInRing(orb.Point{0, 0}, orb.Ring{{0, 0}, {1, 1}}) {
		t.Fatalf("degenerate ring must not contain points")
	}
}

func TestInterpolateLine(t *testing.T) {
	two := orb.LineString{{0, 0}, {10, 0}}
	if got := InterpolateLine(two, 0.25); got != (orb.Point{2.5, 0}) {
		t.Fatalf("two-vertex interpolation = %v, want [2.5 0]", got)
	}

	// Legs of length 2 and 8: 50% of the way is 3 units into the second leg.
	bent := orb.LineString{{0, 0}, {2, 0}, {2, 8}}
	got := InterpolateLine(bent, 0.5)
	if math.Abs(got[0]-2) > 1e-9 || math.Abs(got[1]-3) > 1e-9 {
		t.Fatalf("distance-weighted interpolation = %v, want [2 3]", got)
	}

	if got := InterpolateLine(bent, 1); got != (orb.Point{2, 8}) {
		t.Fatalf("end of line = %v, want [2 8]", got)
	}

	if got := InterpolateLine(orb.LineString{{3, 4}}, 0.7); got != (orb.Point{3, 4}) {
		t.Fatalf("single vertex = %v, want [3 4]", got)
	}
}
