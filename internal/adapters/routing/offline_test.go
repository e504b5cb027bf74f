package routing

import (
	"context"
	"dispatch-simulation-service/internal/geo"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestStraightLineRoute(t *testing.T) {
	p := NewStraightLineRouteProvider(0)
	a := orb.Point{126.978, 37.5665}
	b := orb.Point{127.0, 37.5665}

	res, err := p.Route(context.Background(), a, b, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	km := geo.Haversine(a, b)
	if want := int(math.Ceil(km * 120)); res.DurationSeconds != want {
		t.Fatalf("duration = %d, want %d", res.DurationSeconds, want)
	}
	if math.Abs(res.DistanceMeters-km*1000) > 1e-6 {
		t.Fatalf("distance = %v, want %v", res.DistanceMeters, km*1000)
	}
	if len(res.Segments) != 1 || len(res.Segments[0].Polyline) != 2 {
		t.Fatalf("segments = %+v, want one two-vertex segment", res.Segments)
	}
}

func TestCircleIsochroneContainsNearbyPoints(t *testing.T) {
	p := NewCircleIsochroneProvider(30)
	center := orb.Point{126.978, 37.5665}

	// 10 minutes at 30 km/h is a 5 km radius.
	area, err := p.Isochrone(context.Background(), center, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(area) != 1 {
		t.Fatalf("parts = %d, want 1", len(area))
	}
	ring := area[0][0]
	if !ring.Closed() {
		t.Fatalf("ring is not closed")
	}

	near := orb.Point{126.99, 37.57}
	far := orb.Point{127.1, 37.5665}

	if !geo.PointInRing(near, ring) {
		t.Fatalf("point %.2f km away should be inside", geo.Haversine(center, near))
	}
	if geo.PointInRing(far, ring) {
		t.Fatalf("point %.2f km away should be outside", geo.Haversine(center, far))
	}
}
