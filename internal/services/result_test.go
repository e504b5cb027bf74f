package services

import (
	"dispatch-simulation-service/internal/adapters/routing"
	"dispatch-simulation-service/internal/domain"
	"encoding/json"
	"testing"
	"time"
)

func TestAssembleResult(t *testing.T) {
	d := &Dispatcher{
		Isochrones: &routing.MockIsochroneProvider{},
		Routes:     &routing.MockRouteProvider{DurationSeconds: 60, DistanceMeters: 500},
	}
	vehicle := domain.NewVehicle("vehicle_001", "Alpha", seoul, []string{"call"})
	demand := domain.NewDemand("demand_001", nineAM, seoul, "call")
	out := run(t, quietEngine(t, testConfig(), []*domain.Vehicle{vehicle}, []*domain.Demand{demand}, d))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*3600))
	res := AssembleResult(out, at)

	m := res.Metadata
	if m.Version != ResultVersion || m.ProjectName != "test" {
		t.Fatalf("metadata = %+v", m)
	}
	if !m.GeneratedAt.Equal(at) || m.GeneratedAt.Location() != time.UTC {
		t.Fatalf("generatedAt = %v, want %v in UTC", m.GeneratedAt, at)
	}
	if m.StartTime != "09:00" || m.EndTime != "10:00" || m.TotalDuration != 3600 {
		t.Fatalf("window = %s-%s (%ds)", m.StartTime, m.EndTime, m.TotalDuration)
	}
	if m.CompletedDemands != 1 || m.TotalVehicles != 1 || m.CompletionRate != 1 {
		t.Fatalf("counts = %+v", m)
	}

	if res.Configuration.DefaultService != 600 || len(res.Configuration.JobTypes) != 2 {
		t.Fatalf("configuration = %+v", res.Configuration)
	}

	if len(res.Vehicles) != 1 {
		t.Fatalf("vehicles = %d, want 1", len(res.Vehicles))
	}
	vr := res.Vehicles[0]
	if vr.FinalState != domain.VehicleIdle || vr.Statistics.TotalJobs != 1 || len(vr.Timeline) == 0 {
		t.Fatalf("vehicle result = %+v", vr)
	}

	if _, err := json.Marshal(res); err != nil {
		t.Fatalf("result does not encode: %v", err)
	}
}

func TestAssembleResultEmptyRun(t *testing.T) {
	out := run(t, quietEngine(t, testConfig(), nil, nil, offlineDispatcher()))

	res := AssembleResult(out, time.Now())
	if res.Routes == nil || res.Demands == nil || res.Events == nil || res.Vehicles == nil {
		t.Fatalf("empty run left nil collections: %+v", res)
	}
	if res.Metadata.VehicleUtilization != 0 || res.Metadata.CompletionRate != 0 {
		t.Fatalf("empty run metadata = %+v", res.Metadata)
	}
}
