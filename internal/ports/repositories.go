package ports

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/jobtype"
	"errors"
	"regexp"
)

// Project settings stored in project.json.
type ProjectConfig struct {
	Name          string `json:"name"`
	OperatingTime struct {
		Start string `json:"start" validate:"required"`
		End   string `json:"end" validate:"required"`
	} `json:"operatingTime"`
	WaitTimeLimit int `json:"waitTimeLimit" validate:"gt=0,lte=60"`
}

// Everything needed to run one simulation.
type Project struct {
	Name     string
	Config   ProjectConfig
	Vehicles []*domain.Vehicle
	Demands  []*domain.Demand
	JobTypes *jobtype.Catalog
}

// Port: loads simulation projects from a data source.
type ProjectRepository interface {
	LoadProject(ctx context.Context, name string) (*Project, error)
}

// Port: persists and retrieves assembled simulation results.
type ResultRepository interface {
	SaveResult(ctx context.Context, project string, result *domain.SimulationResult) error
	LoadResult(ctx context.Context, project string) (*domain.SimulationResult, error)
}

var (
	// ErrNotFound is returned by repositories when the requested item does not exist.
	ErrNotFound = errors.New("not found")

	ErrInvalidProjectName = errors.New("project name must match [A-Za-z0-9_-]+")

	// ErrInvalidProject marks project data that is missing or malformed.
	ErrInvalidProject = errors.New("invalid project")
)

var projectName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidProjectName reports whether name is safe to use as a directory name.
func ValidProjectName(name string) bool {
	return projectName.MatchString(name)
}
