package routing

import (
	"context"
	"dispatch-simulation-service/internal/ports"
	"sync"

	"github.com/paulmach/orb"
)

// MockRouteProvider returns a fixed route shape between any two points and
// records every request.
type MockRouteProvider struct {
	DurationSeconds int
	DistanceMeters  float64
	Err             error

	mu    sync.Mutex
	Calls []MockRouteCall
}

type MockRouteCall struct {
	Origin      orb.Point
	Destination orb.Point
	Departure   int
}

func (p *MockRouteProvider) Route(ctx context.Context, origin, destination orb.Point, departure int) (ports.RouteResult, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, MockRouteCall{Origin: origin, Destination: destination, Departure: departure})
	p.mu.Unlock()

	if p.Err != nil {
		return ports.RouteResult{}, p.Err
	}

	line := orb.LineString{origin, destination}
	return ports.RouteResult{
		DurationSeconds: p.DurationSeconds,
		DistanceMeters:  p.DistanceMeters,
		Geometry:        line,
		Segments: []ports.RouteSegment{{
			DurationSeconds: float64(p.DurationSeconds),
			DistanceMeters:  p.DistanceMeters,
			Polyline:        line,
		}},
	}, nil
}

// MockIsochroneProvider returns Area for every request, or a square of
// HalfSide degrees around the origin when Area is nil.
type MockIsochroneProvider struct {
	Area     orb.MultiPolygon
	HalfSide float64
	Err      error

	mu    sync.Mutex
	Calls int
}

func (p *MockIsochroneProvider) Isochrone(ctx context.Context, origin orb.Point, minutes int) (orb.MultiPolygon, error) {
	p.mu.Lock()
	p.Calls++
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	if p.Area != nil {
		return p.Area, nil
	}

	h := p.HalfSide
	if h == 0 {
		h = 1
	}
	x, y := origin.Lon(), origin.Lat()
	return orb.MultiPolygon{{orb.Ring{
		{x - h, y - h}, {x + h, y - h}, {x + h, y + h}, {x - h, y + h}, {x - h, y - h},
	}}}, nil
}
