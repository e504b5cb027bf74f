package routing

import (
	"context"
	"dispatch-simulation-service/internal/geo"
	"dispatch-simulation-service/internal/ports"
	"errors"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// DefaultSpeedKmh is the travel speed assumed by the offline providers.
const DefaultSpeedKmh = 30.0

// StraightLineRouteProvider routes along the great circle between two points
// at a constant speed. It needs no network and is deterministic.
type StraightLineRouteProvider struct {
	SpeedKmh float64
}

func NewStraightLineRouteProvider(speedKmh float64) *StraightLineRouteProvider {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return &StraightLineRouteProvider{SpeedKmh: speedKmh}
}

func (p *StraightLineRouteProvider) Route(
	ctx context.Context,
	origin, destination orb.Point,
	departure int,
) (ports.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.RouteResult{}, err
	}

	km := geo.Haversine(origin, destination)
	duration := int(math.Ceil(km / p.SpeedKmh * 3600))
	line := orb.LineString{origin, destination}

	return ports.RouteResult{
		DurationSeconds: duration,
		DistanceMeters:  km * 1000,
		Geometry:        line,
		Segments: []ports.RouteSegment{{
			DurationSeconds: float64(duration),
			DistanceMeters:  km * 1000,
			Polyline:        line,
		}},
	}, nil
}

// CircleIsochroneProvider approximates the reachable area as a circle whose
// radius is the distance covered at a constant speed.
type CircleIsochroneProvider struct {
	SpeedKmh float64
	Vertices int
}

func NewCircleIsochroneProvider(speedKmh float64) *CircleIsochroneProvider {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return &CircleIsochroneProvider{SpeedKmh: speedKmh, Vertices: 64}
}

func (p *CircleIsochroneProvider) Isochrone(
	ctx context.Context,
	origin orb.Point,
	minutes int,
) (orb.MultiPolygon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, errors.New("circle isochrone: minutes must be positive")
	}

	n := p.Vertices
	if n < 8 {
		n = 8
	}
	radiusMeters := p.SpeedKmh * 1000 * float64(minutes) / 60

	ring := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		bearing := 360 * float64(i) / float64(n)
		ring = append(ring, orbgeo.PointAtBearingAndDistance(origin, bearing, radiusMeters))
	}
	ring = append(ring, ring[0])

	return orb.MultiPolygon{{ring}}, nil
}
