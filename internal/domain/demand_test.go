package domain

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

func TestDemandMilestones(t *testing.T) {
	d := NewDemand("demand_001", 100, orb.Point{1, 1}, "call")

	if err := d.MarkDispatched("vehicle_001", "route_001", 100, nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := d.MarkArrived(160, 900); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if err := d.MarkCompleted(1060); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if d.Status != DemandCompleted {
		t.Fatalf("status = %s, want completed", d.Status)
	}
	if *d.Metrics.WaitTime != 60 {
		t.Fatalf("wait = %d, want 60", *d.Metrics.WaitTime)
	}
	if *d.Metrics.ServiceTime != 900 {
		t.Fatalf("service = %d, want 900", *d.Metrics.ServiceTime)
	}
	if *d.Metrics.TotalTime != 960 {
		t.Fatalf("total = %d, want 960", *d.Metrics.TotalTime)
	}
}

func TestDemandMilestonesAreWrittenOnce(t *testing.T) {
	d := NewDemand("demand_001", 100, orb.Point{}, "call")

	if err := d.MarkDispatched("v", "r", 90, nil); !errors.Is(err, ErrMilestoneSet) {
		t.Fatalf("dispatch before request err = %v, want ErrMilestoneSet", err)
	}
	if err := d.MarkDispatched("v", "r", 100, nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := d.MarkDispatched("v", "r", 101, nil); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("second dispatch err = %v, want ErrIllegalTransition", err)
	}
	if err := d.MarkCompleted(200); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("complete before arrival err = %v, want ErrIllegalTransition", err)
	}
}

func TestDemandRejectAndError(t *testing.T) {
	d := NewDemand("demand_001", 0, orb.Point{}, "call")
	d.MarkRejected("no_available_vehicle")
	if d.Status != DemandRejected || d.Reason != "no_available_vehicle" {
		t.Fatalf("rejected demand = %+v", d)
	}

	e := NewDemand("demand_002", 0, orb.Point{}, "call")
	e.MarkError(errors.New("isochrone: boom"))
	if e.Status != DemandError || e.Reason != "isochrone: boom" {
		t.Fatalf("errored demand = %+v", e)
	}
}
