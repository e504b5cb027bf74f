package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

type DemandStatus string

const (
	DemandPending   DemandStatus = "pending"
	DemandAssigned  DemandStatus = "assigned"
	DemandCompleted DemandStatus = "completed"
	DemandRejected  DemandStatus = "rejected"
	DemandError     DemandStatus = "error"
)

// DemandTimeline holds milestone timestamps in simulation seconds.
// Each milestone is written at most once and never precedes the one before it.
type DemandTimeline struct {
	Requested     int  `json:"requested"`
	Dispatched    *int `json:"dispatched"`
	Arrived       *int `json:"arrived"`
	WorkStarted   *int `json:"workStarted"`
	WorkCompleted *int `json:"workCompleted"`
}

type DemandMetrics struct {
	WaitTime    *int `json:"waitTime"`
	ServiceTime *int `json:"serviceTime"`
	TotalTime   *int `json:"totalTime"`
}

// DispatchInfo records how a demand was matched to its vehicle.
type DispatchInfo struct {
	DispatchTime      int                 `json:"dispatchTime"`
	WaitTime          int                 `json:"waitTime"`
	WaitTimeLimit     int                 `json:"waitTimeLimit"`
	Candidates        map[string][]string `json:"candidateVehicles"`
	SelectedReason    string              `json:"selectedReason"`
	DistanceToVehicle float64             `json:"distanceToVehicle"`
}

// Demand is a single time-stamped service request.
// Demands are created at load time, sorted by RequestTime, and only mutated
// by dispatch and by the loop's arrival/completion checks.
type Demand struct {
	ID              string         `json:"id"`
	RequestTime     int            `json:"timestamp"`
	RequestClock    string         `json:"requestTime,omitempty"`
	Location        orb.Point      `json:"location"`
	Address         string         `json:"address,omitempty"`
	JobType         string         `json:"job_type"`
	Status          DemandStatus   `json:"status"`
	AssignedVehicle string         `json:"assignedVehicle,omitempty"`
	RouteID         string         `json:"routeId,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	DispatchInfo    *DispatchInfo  `json:"dispatchInfo,omitempty"`
	Timeline        DemandTimeline `json:"timeline"`
	Metrics         DemandMetrics  `json:"metrics"`
}

func NewDemand(id string, requestTime int, location orb.Point, jobType string) *Demand {
	return &Demand{
		ID:          id,
		RequestTime: requestTime,
		Location:    location,
		JobType:     jobType,
		Status:      DemandPending,
		Timeline:    DemandTimeline{Requested: requestTime},
	}
}

// setMilestone writes now into *slot if it is unset and not earlier than prev.
func setMilestone(slot **int, now, prev int, name string) error {
	if *slot != nil {
		return fmt.Errorf("%s: %w", name, ErrMilestoneSet)
	}
	if now < prev {
		return fmt.Errorf("%s at %d before %d: %w", name, now, prev, ErrMilestoneSet)
	}
	v := now
	*slot = &v
	return nil
}

func intPtr(v int) *int { return &v }

// MarkDispatched records the assignment of vehicleID at now.
func (d *Demand) MarkDispatched(vehicleID, routeID string, now int, info *DispatchInfo) error {
	if d.Status != DemandPending {
		return fmt.Errorf("dispatch demand %s in status %s: %w", d.ID, d.Status, ErrIllegalTransition)
	}
	if err := setMilestone(&d.Timeline.Dispatched, now, d.Timeline.Requested, "dispatched"); err != nil {
		return fmt.Errorf("dispatch demand %s: %w", d.ID, err)
	}

	d.Status = DemandAssigned
	d.AssignedVehicle = vehicleID
	d.RouteID = routeID
	d.DispatchInfo = info
	return nil
}

// MarkArrived records vehicle arrival; work starts on arrival.
func (d *Demand) MarkArrived(now, serviceSeconds int) error {
	if d.Status != DemandAssigned {
		return fmt.Errorf("arrive at demand %s in status %s: %w", d.ID, d.Status, ErrIllegalTransition)
	}
	if err := setMilestone(&d.Timeline.Arrived, now, *d.Timeline.Dispatched, "arrived"); err != nil {
		return fmt.Errorf("arrive at demand %s: %w", d.ID, err)
	}
	if err := setMilestone(&d.Timeline.WorkStarted, now, now, "workStarted"); err != nil {
		return fmt.Errorf("arrive at demand %s: %w", d.ID, err)
	}

	d.Metrics.WaitTime = intPtr(now - d.Timeline.Requested)
	d.Metrics.ServiceTime = intPtr(serviceSeconds)
	return nil
}

// MarkCompleted closes the demand once on-site work is finished.
func (d *Demand) MarkCompleted(now int) error {
	if d.Status != DemandAssigned || d.Timeline.WorkStarted == nil {
		return fmt.Errorf("complete demand %s in status %s: %w", d.ID, d.Status, ErrIllegalTransition)
	}
	if err := setMilestone(&d.Timeline.WorkCompleted, now, *d.Timeline.WorkStarted, "workCompleted"); err != nil {
		return fmt.Errorf("complete demand %s: %w", d.ID, err)
	}

	d.Status = DemandCompleted
	d.Metrics.TotalTime = intPtr(now - d.Timeline.Requested)
	return nil
}

// MarkRejected records that no eligible vehicle was found.
func (d *Demand) MarkRejected(reason string) {
	d.Status = DemandRejected
	d.Reason = reason
}

// MarkError records a provider failure while dispatching this demand.
func (d *Demand) MarkError(err error) {
	d.Status = DemandError
	if err != nil {
		d.Reason = err.Error()
	}
}
