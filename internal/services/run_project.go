package services

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/ports"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type RunProjectRequest struct {
	ProjectName      string
	SnapshotInterval int

	Progress  ports.ProgressSink
	Cancelled ports.CancellationCheck
	Logger    *log.Logger
}

// PrepareProject loads a project and builds its engine without running it.
func PrepareProject(
	ctx context.Context,
	projects ports.ProjectRepository,
	name string,
	snapshotInterval int,
	dispatcher *Dispatcher,
) (*Engine, error) {
	p, err := projects.LoadProject(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("prepare project %s: %w", name, err)
	}

	cfg := EngineConfig{
		ProjectName:      p.Name,
		StartTime:        p.Config.OperatingTime.Start,
		EndTime:          p.Config.OperatingTime.End,
		WaitTimeLimit:    p.Config.WaitTimeLimit,
		SnapshotInterval: snapshotInterval,
	}

	engine, err := NewEngine(cfg, p.Vehicles, p.Demands, p.JobTypes, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("prepare project %s: %w", name, err)
	}
	return engine, nil
}

// SaveRun assembles the result of a finished run under a fresh run id and
// saves it. Cancelled runs are assembled but not saved.
func SaveRun(ctx context.Context, results ports.ResultRepository, out *RunOutput) (*domain.SimulationResult, error) {
	res := AssembleResult(out, time.Now())
	res.Metadata.RunID = uuid.NewString()
	if out.Cancelled {
		return res, nil
	}

	if err := results.SaveResult(ctx, out.Config.ProjectName, res); err != nil {
		return nil, fmt.Errorf("save run %s: %w", out.Config.ProjectName, err)
	}
	return res, nil
}

// RunProject loads a project, runs it to the end of its operating window and
// saves the assembled result.
func RunProject(
	ctx context.Context,
	req RunProjectRequest,
	projects ports.ProjectRepository,
	results ports.ResultRepository,
	dispatcher *Dispatcher,
) (*domain.SimulationResult, error) {
	engine, err := PrepareProject(ctx, projects, req.ProjectName, req.SnapshotInterval, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("run project: %w", err)
	}
	engine.Progress = req.Progress
	engine.Cancelled = req.Cancelled
	engine.Logger = req.Logger

	out, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run project %s: %w", req.ProjectName, err)
	}

	return SaveRun(ctx, results, out)
}
