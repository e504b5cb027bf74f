package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func newTestFleet(t *testing.T) *Fleet {
	t.Helper()

	f, err := NewFleet([]*Vehicle{
		NewVehicle("vehicle_001", "Alpha", orb.Point{0, 0}, []string{"call"}),
		NewVehicle("vehicle_002", "Bravo", orb.Point{5, 5}, []string{"call", "delivery"}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func testRoute() *Route {
	return &Route{
		ID:            "route_001",
		Duration:      100,
		Distance:      2500,
		StartLocation: orb.Point{0, 0},
		EndLocation:   orb.Point{10, 0},
		Segments: []Segment{
			{Index: 0, Duration: 40, Distance: 1000, Polyline: orb.LineString{{0, 0}, {4, 0}}},
			{Index: 1, Duration: 60, Distance: 1500, Polyline: orb.LineString{{4, 0}, {6, 0}, {10, 0}}},
		},
	}
}

func TestFleetRejectsDuplicateIDs(t *testing.T) {
	_, err := NewFleet([]*Vehicle{
		NewVehicle("v", "a", orb.Point{}, nil),
		NewVehicle("v", "b", orb.Point{}, nil),
	})
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestFleetLifecycle(t *testing.T) {
	f := newTestFleet(t)
	route := testRoute()

	if err := f.Dispatch("vehicle_001", "demand_001", route, orb.Point{10, 0}, 10); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	v, _ := f.Get("vehicle_001")
	if v.State != VehicleMoving {
		t.Fatalf("state = %s, want moving", v.State)
	}
	if v.AssignedDemandID != "demand_001" {
		t.Fatalf("assigned = %q, want demand_001", v.AssignedDemandID)
	}
	if v.ETA == nil || *v.ETA != 110 {
		t.Fatalf("eta = %v, want 110", v.ETA)
	}

	// A moving vehicle cannot take another demand.
	err := f.Dispatch("vehicle_001", "demand_002", route, orb.Point{1, 1}, 11)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("second dispatch err = %v, want ErrIllegalTransition", err)
	}

	if err := f.Arrive("vehicle_001", 110, 900); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if v.State != VehicleWorking {
		t.Fatalf("state = %s, want working", v.State)
	}
	if v.Location != (orb.Point{10, 0}) {
		t.Fatalf("location = %v, want snapped to target", v.Location)
	}
	if *v.ServiceEnd != 1010 {
		t.Fatalf("service end = %d, want 1010", *v.ServiceEnd)
	}
	if v.Statistics.MovingTime != 100 {
		t.Fatalf("moving time = %d, want 100", v.Statistics.MovingTime)
	}
	if math.Abs(v.Statistics.TotalDistanceKm-2.5) > 1e-9 {
		t.Fatalf("distance = %v, want 2.5 km", v.Statistics.TotalDistanceKm)
	}

	demandID, err := f.Complete("vehicle_001", 1010)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if demandID != "demand_001" {
		t.Fatalf("completed demand = %q, want demand_001", demandID)
	}
	if v.State != VehicleIdle || v.AssignedDemandID != "" || v.Route != nil {
		t.Fatalf("vehicle not reset after completion: %+v", v)
	}
	if v.Statistics.TotalJobs != 1 || v.Statistics.WorkingTime != 900 {
		t.Fatalf("stats = %+v, want 1 job / 900s working", v.Statistics)
	}

	wantTypes := []string{TimelineDemandAssigned, TimelineArrivedAtDemand, TimelineWorkCompleted}
	if len(v.Timeline) != len(wantTypes) {
		t.Fatalf("timeline length = %d, want %d", len(v.Timeline), len(wantTypes))
	}
	for i, typ := range wantTypes {
		if v.Timeline[i].Type != typ {
			t.Errorf("timeline[%d] = %s, want %s", i, v.Timeline[i].Type, typ)
		}
	}
}

func TestFleetIllegalTransitions(t *testing.T) {
	f := newTestFleet(t)

	if err := f.Arrive("vehicle_001", 0, 10); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("arrive from idle err = %v, want ErrIllegalTransition", err)
	}
	if _, err := f.Complete("vehicle_001", 0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("complete from idle err = %v, want ErrIllegalTransition", err)
	}
	if err := f.Dispatch("nope", "d", testRoute(), orb.Point{}, 0); !errors.Is(err, ErrUnknownVehicle) {
		t.Fatalf("unknown vehicle err = %v, want ErrUnknownVehicle", err)
	}
}

func TestFleetRetire(t *testing.T) {
	f := newTestFleet(t)

	if err := f.Retire("vehicle_002", 5); err != nil {
		t.Fatalf("retire: %v", err)
	}
	v, _ := f.Get("vehicle_002")
	if v.State != VehicleOutOfService || v.Available() {
		t.Fatalf("retired vehicle state = %s available=%v", v.State, v.Available())
	}
	if err := f.Dispatch("vehicle_002", "d", testRoute(), orb.Point{}, 6); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("dispatch of retired vehicle err = %v, want ErrIllegalTransition", err)
	}

	counts := f.CountByState()
	if counts[VehicleOutOfService] != 1 || counts[VehicleIdle] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestVehiclePositionAt(t *testing.T) {
	f := newTestFleet(t)
	if err := f.Dispatch("vehicle_001", "demand_001", testRoute(), orb.Point{10, 0}, 0); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	v, _ := f.Get("vehicle_001")

	cases := []struct {
		now  int
		want orb.Point
	}{
		{0, orb.Point{0, 0}},
		{20, orb.Point{2, 0}},
		{40, orb.Point{4, 0}},
		// Second segment is 6 units long over 60s: 30s in reaches x=7.
		{70, orb.Point{7, 0}},
		{100, orb.Point{10, 0}},
		{500, orb.Point{10, 0}},
	}

	for _, tc := range cases {
		got := v.PositionAt(tc.now)
		if math.Abs(got[0]-tc.want[0]) > 1e-9 || math.Abs(got[1]-tc.want[1]) > 1e-9 {
			t.Errorf("PositionAt(%d) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestVehiclePositionAtWithoutGeometry(t *testing.T) {
	f := newTestFleet(t)
	route := &Route{
		ID:            "route_002",
		Duration:      50,
		StartLocation: orb.Point{0, 0},
		EndLocation:   orb.Point{10, 10},
	}
	if err := f.Dispatch("vehicle_001", "demand_001", route, orb.Point{10, 10}, 100); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	v, _ := f.Get("vehicle_001")

	if got := v.PositionAt(125); got != (orb.Point{5, 5}) {
		t.Fatalf("midpoint = %v, want [5 5]", got)
	}
	if got := v.PositionAt(150); got != (orb.Point{10, 10}) {
		t.Fatalf("end = %v, want [10 10]", got)
	}
}

func TestFleetRefreshPositionSnapshots(t *testing.T) {
	f := newTestFleet(t)
	if err := f.Dispatch("vehicle_001", "demand_001", testRoute(), orb.Point{10, 0}, 0); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	v, _ := f.Get("vehicle_001")

	for now := 1; now < 100; now++ {
		f.RefreshPosition(v, now, 30)
	}

	snapshots := 0
	for _, e := range v.Timeline {
		if e.Type == TimelinePositionSnapshot {
			snapshots++
		}
	}
	if snapshots != 3 {
		t.Fatalf("snapshots = %d, want 3 (t=30,60,90)", snapshots)
	}
	if v.Location == (orb.Point{0, 0}) {
		t.Fatalf("location was not refreshed")
	}
}
