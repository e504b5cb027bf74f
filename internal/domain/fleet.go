package domain

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Fleet owns every vehicle of a run and is the only place vehicle state
// transitions happen. Vehicles are kept in roster order with an id index.
type Fleet struct {
	vehicles []*Vehicle
	index    map[string]int
}

func NewFleet(vehicles []*Vehicle) (*Fleet, error) {
	f := &Fleet{
		vehicles: make([]*Vehicle, 0, len(vehicles)),
		index:    make(map[string]int, len(vehicles)),
	}

	for i, v := range vehicles {
		if v == nil {
			return nil, fmt.Errorf("new fleet: vehicle at index %d is nil", i)
		}
		if v.ID == "" {
			return nil, fmt.Errorf("new fleet: vehicle at index %d has empty id", i)
		}
		if _, ok := f.index[v.ID]; ok {
			return nil, fmt.Errorf("new fleet: duplicate vehicle id %q", v.ID)
		}
		if v.State == "" {
			v.State = VehicleIdle
		}
		f.index[v.ID] = len(f.vehicles)
		f.vehicles = append(f.vehicles, v)
	}

	return f, nil
}

func (f *Fleet) Len() int { return len(f.vehicles) }

// Vehicles returns the roster in its original order.
func (f *Fleet) Vehicles() []*Vehicle { return f.vehicles }

func (f *Fleet) Get(vehicleID string) (*Vehicle, bool) {
	i, ok := f.index[vehicleID]
	if !ok {
		return nil, false
	}
	return f.vehicles[i], true
}

func (f *Fleet) mustGet(op, vehicleID string) (*Vehicle, error) {
	v, ok := f.Get(vehicleID)
	if !ok {
		return nil, fmt.Errorf("%s: vehicle %q: %w", op, vehicleID, ErrUnknownVehicle)
	}
	return v, nil
}

// Start writes the initial timeline entry of every vehicle.
func (f *Fleet) Start(now int) {
	for _, v := range f.vehicles {
		v.record(now, TimelineSimulationStart, nil)
	}
}

// Dispatch sends an idle vehicle along route towards target.
func (f *Fleet) Dispatch(vehicleID, demandID string, route *Route, target orb.Point, now int) error {
	v, err := f.mustGet("dispatch", vehicleID)
	if err != nil {
		return err
	}
	if !v.Available() {
		return fmt.Errorf("dispatch: vehicle %s is %s: %w", v.ID, v.State, ErrIllegalTransition)
	}
	if route == nil {
		return errors.New("dispatch: route must be non-nil")
	}
	if demandID == "" {
		return errors.New("dispatch: demand id must be non-empty")
	}

	eta := now + route.Duration
	start := now
	tgt := target

	v.AssignedDemandID = demandID
	v.Route = route
	v.RouteStartTime = &start
	v.ETA = &eta
	v.TargetLocation = &tgt
	v.State = VehicleMoving
	v.lastSnapshot = now

	v.record(now, TimelineDemandAssigned, map[string]any{
		"demandId":         demandID,
		"routeId":          route.ID,
		"targetLocation":   target,
		"estimatedArrival": eta,
	})

	return nil
}

// Arrive moves a travelling vehicle onto its target and starts the service
// window. Moving time and route distance are credited here.
func (f *Fleet) Arrive(vehicleID string, now, serviceSeconds int) error {
	v, err := f.mustGet("arrive", vehicleID)
	if err != nil {
		return err
	}
	if v.State != VehicleMoving || v.Route == nil {
		return fmt.Errorf("arrive: vehicle %s is %s: %w", v.ID, v.State, ErrIllegalTransition)
	}
	if serviceSeconds < 0 {
		return fmt.Errorf("arrive: vehicle %s: negative service time %d", v.ID, serviceSeconds)
	}

	if v.TargetLocation != nil {
		v.Location = *v.TargetLocation
	} else {
		v.Location = v.Route.EndLocation
	}

	start := now
	end := now + serviceSeconds
	v.ServiceStart = &start
	v.ServiceEnd = &end
	v.State = VehicleWorking

	v.Statistics.MovingTime += now - *v.RouteStartTime
	v.Statistics.TotalDistanceKm += v.Route.Distance / 1000

	v.record(now, TimelineArrivedAtDemand, map[string]any{
		"demandId":            v.AssignedDemandID,
		"serviceTime":         serviceSeconds,
		"estimatedCompletion": end,
	})

	return nil
}

// Complete finishes on-site work and returns the vehicle to idle. It returns
// the id of the demand that was served.
func (f *Fleet) Complete(vehicleID string, now int) (string, error) {
	v, err := f.mustGet("complete", vehicleID)
	if err != nil {
		return "", err
	}
	if v.State != VehicleWorking || v.ServiceStart == nil || v.ServiceEnd == nil {
		return "", fmt.Errorf("complete: vehicle %s is %s: %w", v.ID, v.State, ErrIllegalTransition)
	}

	service := *v.ServiceEnd - *v.ServiceStart
	demandID := v.AssignedDemandID

	v.Statistics.TotalJobs++
	v.Statistics.TotalServiceTime += service
	v.Statistics.WorkingTime += service

	v.AssignedDemandID = ""
	v.Route = nil
	v.RouteStartTime = nil
	v.ETA = nil
	v.TargetLocation = nil
	v.ServiceStart = nil
	v.ServiceEnd = nil
	v.State = VehicleIdle

	v.record(now, TimelineWorkCompleted, map[string]any{
		"demandId": demandID,
	})

	return demandID, nil
}

// Retire forces an idle vehicle out of service. Normal simulation
// transitions never reach this state.
func (f *Fleet) Retire(vehicleID string, now int) error {
	v, err := f.mustGet("retire", vehicleID)
	if err != nil {
		return err
	}
	if !v.Available() {
		return fmt.Errorf("retire: vehicle %s is %s: %w", v.ID, v.State, ErrIllegalTransition)
	}

	v.State = VehicleOutOfService
	v.record(now, TimelineOutOfService, nil)
	return nil
}

// PositionAt interpolates the position of vehicleID at now.
func (f *Fleet) PositionAt(vehicleID string, now int) (orb.Point, error) {
	v, err := f.mustGet("position", vehicleID)
	if err != nil {
		return orb.Point{}, err
	}
	return v.PositionAt(now), nil
}

// RefreshPosition stores the interpolated position of a moving vehicle and,
// every snapshotEvery seconds of travel, appends it to the timeline.
// A non-positive snapshotEvery disables snapshots.
func (f *Fleet) RefreshPosition(v *Vehicle, now, snapshotEvery int) {
	if v.State != VehicleMoving {
		return
	}

	v.Location = v.PositionAt(now)

	if snapshotEvery > 0 && now-v.lastSnapshot >= snapshotEvery {
		v.lastSnapshot = now
		v.record(now, TimelinePositionSnapshot, map[string]any{
			"demandId": v.AssignedDemandID,
		})
	}
}

// CountByState returns how many vehicles are in each state.
func (f *Fleet) CountByState() map[VehicleState]int {
	out := map[VehicleState]int{
		VehicleIdle:         0,
		VehicleMoving:       0,
		VehicleWorking:      0,
		VehicleOutOfService: 0,
	}
	for _, v := range f.vehicles {
		out[v.State]++
	}
	return out
}
