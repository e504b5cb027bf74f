package services

import (
	"context"
	"dispatch-simulation-service/internal/adapters/routing"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/ports"
	"errors"
	"io"
	"log"
	"testing"
)

type memProjects map[string]*ports.Project

func (m memProjects) LoadProject(ctx context.Context, name string) (*ports.Project, error) {
	p, ok := m[name]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return p, nil
}

type memResults struct {
	saved map[string]*domain.SimulationResult
}

func (m *memResults) SaveResult(ctx context.Context, project string, r *domain.SimulationResult) error {
	if m.saved == nil {
		m.saved = make(map[string]*domain.SimulationResult)
	}
	m.saved[project] = r
	return nil
}

func (m *memResults) LoadResult(ctx context.Context, project string) (*domain.SimulationResult, error) {
	r, ok := m.saved[project]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r, nil
}

func testProject(t *testing.T) *ports.Project {
	t.Helper()

	p := &ports.Project{
		Name:     "demo",
		Vehicles: []*domain.Vehicle{domain.NewVehicle("vehicle_001", "A", seoul, []string{"call"})},
		Demands:  []*domain.Demand{domain.NewDemand("demand_001", nineAM+60, seoul, "call")},
		JobTypes: testCatalog(t),
	}
	p.Config.OperatingTime.Start = "09:00"
	p.Config.OperatingTime.End = "10:00"
	p.Config.WaitTimeLimit = 10
	return p
}

func TestRunProjectSavesResult(t *testing.T) {
	results := &memResults{}
	req := RunProjectRequest{ProjectName: "demo", Logger: log.New(io.Discard, "", 0)}

	res, err := RunProject(context.Background(), req, memProjects{"demo": testProject(t)}, results, offlineDispatcher())
	if err != nil {
		t.Fatalf("run project: %v", err)
	}
	if res.Metadata.RunID == "" {
		t.Fatalf("result has no run id")
	}
	if res.Metadata.CompletedDemands != 1 {
		t.Fatalf("completed = %d, want 1", res.Metadata.CompletedDemands)
	}
	if results.saved["demo"] != res {
		t.Fatalf("result was not saved")
	}
}

func TestRunProjectCancelledIsNotSaved(t *testing.T) {
	results := &memResults{}
	req := RunProjectRequest{
		ProjectName: "demo",
		Logger:      log.New(io.Discard, "", 0),
		Cancelled:   func() bool { return true },
	}

	res, err := RunProject(context.Background(), req, memProjects{"demo": testProject(t)}, results, offlineDispatcher())
	if err != nil {
		t.Fatalf("run project: %v", err)
	}
	if !res.Metadata.Cancelled {
		t.Fatalf("result not marked cancelled")
	}
	if len(results.saved) != 0 {
		t.Fatalf("cancelled run was saved")
	}
}

func TestRunProjectErrors(t *testing.T) {
	req := RunProjectRequest{ProjectName: "missing"}
	_, err := RunProject(context.Background(), req, memProjects{}, &memResults{}, offlineDispatcher())
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	p := testProject(t)
	p.Config.WaitTimeLimit = 0
	req.ProjectName = "demo"
	_, err = RunProject(context.Background(), req, memProjects{"demo": p}, &memResults{}, offlineDispatcher())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}

	_, err = RunProject(context.Background(), req, memProjects{"demo": testProject(t)}, &memResults{}, &Dispatcher{
		Isochrones: &routing.MockIsochroneProvider{},
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("missing route provider err = %v, want ErrInvalidConfig", err)
	}
}
