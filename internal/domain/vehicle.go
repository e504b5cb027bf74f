package domain

import (
	"slices"

	"github.com/paulmach/orb"

	"dispatch-simulation-service/internal/geo"
)

type VehicleState string

const (
	VehicleIdle         VehicleState = "idle"
	VehicleMoving       VehicleState = "moving"
	VehicleWorking      VehicleState = "working"
	VehicleOutOfService VehicleState = "out_of_service"
)

// VehicleStatistics accumulate over a run. Distance is in kilometers,
// times in seconds.
type VehicleStatistics struct {
	TotalJobs        int     `json:"total_jobs"`
	TotalDistanceKm  float64 `json:"total_distance"`
	TotalServiceTime int     `json:"total_service_time"`
	MovingTime       int     `json:"moving_time"`
	WorkingTime      int     `json:"working_time"`
	IdleTime         int     `json:"idle_time"`
}

// Vehicle is a fleet member. AssignedDemandID is non-empty exactly when the
// state is moving or working.
type Vehicle struct {
	ID               string
	Name             string
	JobTypes         []string
	Capacity         int
	InitialLocation  orb.Point
	Location         orb.Point
	State            VehicleState
	AssignedDemandID string

	Route          *Route
	RouteStartTime *int
	ETA            *int
	TargetLocation *orb.Point
	ServiceStart   *int
	ServiceEnd     *int

	Timeline   []TimelineEntry
	Statistics VehicleStatistics

	lastSnapshot int
}

// NewVehicle creates an idle vehicle parked at its initial location.
func NewVehicle(id, name string, location orb.Point, jobTypes []string) *Vehicle {
	return &Vehicle{
		ID:              id,
		Name:            name,
		JobTypes:        jobTypes,
		InitialLocation: location,
		Location:        location,
		State:           VehicleIdle,
	}
}

// Available reports whether the vehicle can take a new demand.
func (v *Vehicle) Available() bool {
	return v.State == VehicleIdle && v.AssignedDemandID == ""
}

// Serves reports whether jobType is one of the vehicle's job types.
func (v *Vehicle) Serves(jobType string) bool {
	return slices.Contains(v.JobTypes, jobType)
}

func (v *Vehicle) record(now int, typ string, data map[string]any) {
	v.Timeline = append(v.Timeline, TimelineEntry{
		Timestamp: now,
		Type:      typ,
		State:     v.State,
		Location:  v.Location,
		Data:      data,
	})
}

// PositionAt returns where the vehicle is at simulation second now.
//
// Idle and working vehicles stay where they are. A moving vehicle is placed
// along its route: segment durations are accumulated into time boundaries, the
// segment containing now is located, and the position is interpolated along
// that segment's polyline by distance. Routes without geometry fall back to a
// straight line between their endpoints.
func (v *Vehicle) PositionAt(now int) orb.Point {
	if v.State != VehicleMoving || v.Route == nil || v.RouteStartTime == nil {
		return v.Location
	}

	r := v.Route
	elapsed := float64(now - *v.RouteStartTime)
	if elapsed <= 0 {
		return r.StartLocation
	}

	if !r.hasGeometry() {
		if r.Duration <= 0 || elapsed >= float64(r.Duration) {
			return r.EndLocation
		}
		return geo.Lerp(r.StartLocation, r.EndLocation, elapsed/float64(r.Duration))
	}

	last := r.StartLocation
	cum := 0.0
	for _, s := range r.Segments {
		start := cum
		end := cum + s.Duration
		cum = end

		if elapsed >= start && elapsed < end {
			if len(s.Polyline) == 0 {
				return last
			}
			return geo.InterpolateLine(s.Polyline, (elapsed-start)/s.Duration)
		}
		if len(s.Polyline) > 0 {
			last = s.Polyline[len(s.Polyline)-1]
		}
	}

	return last
}
