package services

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/geo"
	"dispatch-simulation-service/internal/ports"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Dispatch filter stages and the rejection reason each one produces.
const (
	StageAvailability = "availability"
	StageReachability = "reachability"
	StageCapability   = "capability"

	ReasonNoAvailableVehicle = "no_available_vehicle"
	ReasonOutsideIsochrone   = "outside_isochrone"
	ReasonJobTypeMismatch    = "job_type_mismatch"

	selectedClosest = "closest_distance"
)

// ErrProvider marks a failed isochrone or route lookup.
var ErrProvider = errors.New("provider failure")

// RejectedError means no vehicle survived the dispatch filters.
// It is a normal outcome, not a failure.
type RejectedError struct {
	Stage  string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected at %s: %s", e.Stage, e.Reason)
}

// Assignment is the outcome of a successful dispatch attempt.
type Assignment struct {
	Vehicle    *domain.Vehicle
	Route      ports.RouteResult
	DistanceKm float64
	Info       domain.DispatchInfo
}

// Dispatcher matches one demand to at most one vehicle. It looks at each
// demand in isolation: no look-ahead, no batching.
type Dispatcher struct {
	Isochrones ports.IsochroneProvider
	Routes     ports.RouteProvider
}

// TryDispatch runs the availability, reachability and capability filters in
// that order and picks the closest remaining vehicle by great-circle
// distance; ties go to the earlier vehicle in roster order.
//
// A *RejectedError is returned when a filter leaves no candidates. Provider
// failures are wrapped with ErrProvider.
func (d *Dispatcher) TryDispatch(
	ctx context.Context,
	demand *domain.Demand,
	fleet *domain.Fleet,
	waitMinutes int,
	now int,
) (*Assignment, error) {
	if waitMinutes <= 0 || waitMinutes > 60 {
		return nil, fmt.Errorf("try dispatch: wait time limit %d: %w", waitMinutes, ErrInvalidConfig)
	}

	info := domain.DispatchInfo{
		DispatchTime:  now,
		WaitTime:      now - demand.RequestTime,
		WaitTimeLimit: waitMinutes,
		Candidates:    make(map[string][]string, 3),
	}

	available := make([]*domain.Vehicle, 0, fleet.Len())
	for _, v := range fleet.Vehicles() {
		if v.Available() {
			available = append(available, v)
		}
	}
	info.Candidates[StageAvailability] = vehicleIDs(available)
	if len(available) == 0 {
		return nil, &RejectedError{Stage: StageAvailability, Reason: ReasonNoAvailableVehicle}
	}

	area, err := d.Isochrones.Isochrone(ctx, demand.Location, waitMinutes)
	if err != nil {
		return nil, fmt.Errorf("try dispatch %s: isochrone: %w: %w", demand.ID, ErrProvider, err)
	}

	reachable := make([]*domain.Vehicle, 0, len(available))
	for _, v := range available {
		if inArea(v.Location, area) {
			reachable = append(reachable, v)
		}
	}
	info.Candidates[StageReachability] = vehicleIDs(reachable)
	if len(reachable) == 0 {
		return nil, &RejectedError{Stage: StageReachability, Reason: ReasonOutsideIsochrone}
	}

	capable := make([]*domain.Vehicle, 0, len(reachable))
	for _, v := range reachable {
		if v.Serves(demand.JobType) {
			capable = append(capable, v)
		}
	}
	info.Candidates[StageCapability] = vehicleIDs(capable)
	if len(capable) == 0 {
		return nil, &RejectedError{Stage: StageCapability, Reason: ReasonJobTypeMismatch}
	}

	var best *domain.Vehicle
	bestKm := 0.0
	for _, v := range capable {
		km := geo.Haversine(v.Location, demand.Location)
		if best == nil || km < bestKm {
			best = v
			bestKm = km
		}
	}

	route, err := d.Routes.Route(ctx, best.Location, demand.Location, now)
	if err != nil {
		return nil, fmt.Errorf("try dispatch %s: route from %s: %w: %w", demand.ID, best.ID, ErrProvider, err)
	}

	info.SelectedReason = selectedClosest
	info.DistanceToVehicle = bestKm

	return &Assignment{
		Vehicle:    best,
		Route:      route,
		DistanceKm: bestKm,
		Info:       info,
	}, nil
}

func inArea(p orb.Point, area orb.MultiPolygon) bool {
	for _, part := range area {
		if len(part) > 0 && geo.PointInRing(p, part[0]) {
			return true
		}
	}
	return false
}

func vehicleIDs(vs []*domain.Vehicle) []string {
	ids := make([]string, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	return ids
}
