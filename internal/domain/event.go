package domain

import "github.com/paulmach/orb"

// Global event types.
const (
	EventSimulationStart     = "simulation_start"
	EventSimulationEnd       = "simulation_end"
	EventSimulationCancelled = "simulation_cancelled"
	EventDemandOccurred      = "demand_occurred"
	EventVehicleDispatched   = "vehicle_dispatched"
	EventDemandRejected      = "demand_rejected"
	EventDemandError         = "demand_error"
	EventVehicleArrived      = "vehicle_arrived"
	EventWorkStarted         = "work_started"
	EventWorkCompleted       = "work_completed"
)

// Vehicle timeline entry types.
const (
	TimelineSimulationStart  = "simulation_start"
	TimelineDemandAssigned   = "demand_assigned"
	TimelineArrivedAtDemand  = "arrived_at_demand"
	TimelineWorkCompleted    = "work_completed"
	TimelinePositionSnapshot = "position_snapshot"
	TimelineOutOfService     = "out_of_service"
)

// Event is an entry of the global, append-only event log.
type Event struct {
	Timestamp int            `json:"timestamp"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// TimelineEntry is an entry of a single vehicle's append-only timeline.
type TimelineEntry struct {
	Timestamp int            `json:"timestamp"`
	Type      string         `json:"type"`
	State     VehicleState   `json:"state"`
	Location  orb.Point      `json:"location"`
	Data      map[string]any `json:"data,omitempty"`
}
