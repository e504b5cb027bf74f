package ports

import (
	"context"

	"github.com/paulmach/orb"
)

// One step of a route with its own geometry and timing.
type RouteSegment struct {
	Name            string
	DurationSeconds float64
	DistanceMeters  float64
	Polyline        orb.LineString
}

// Drivable route between two points.
type RouteResult struct {
	DurationSeconds int
	DistanceMeters  float64
	Geometry        orb.LineString
	Segments        []RouteSegment
}

// Contract for retrieving route geometry and travel time between two points.
type RouteProvider interface {
	// Return a route from origin to destination. departure is the simulated
	// departure time in seconds since midnight, used as a hint only.
	Route(ctx context.Context, origin, destination orb.Point, departure int) (RouteResult, error)
}

// Contract for retrieving the area reachable from a point within a time budget.
type IsochroneProvider interface {
	// Return the area reachable from origin within minutes of travel. A point
	// is reachable when it lies inside the outer ring of any part.
	Isochrone(ctx context.Context, origin orb.Point, minutes int) (orb.MultiPolygon, error)
}
