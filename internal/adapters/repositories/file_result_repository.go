package repositories

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const resultFile = "simulation_result.json"

// FileResultRepository stores results as <Root>/<project>/simulation_result.json.
type FileResultRepository struct {
	Root string
}

func NewFileResultRepository(root string) *FileResultRepository {
	return &FileResultRepository{Root: root}
}

func (r *FileResultRepository) path(project string) (string, error) {
	if !ports.ValidProjectName(project) {
		return "", fmt.Errorf("project %q: %w", project, ports.ErrInvalidProjectName)
	}
	return filepath.Join(r.Root, project, resultFile), nil
}

// SaveResult writes through a temporary file so readers never see a
// partially written result.
func (r *FileResultRepository) SaveResult(ctx context.Context, project string, result *domain.SimulationResult) error {
	if result == nil {
		return errors.New("save result: result is nil")
	}
	path, err := r.path(project)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("save result %q: encode: %w", project, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), resultFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("save result %q: create temp: %w", project, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("save result %q: write: %w", project, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save result %q: close: %w", project, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save result %q: rename: %w", project, err)
	}

	return nil
}

func (r *FileResultRepository) LoadResult(ctx context.Context, project string) (*domain.SimulationResult, error) {
	path, err := r.path(project)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load result %q: %w", project, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("load result %q: %w", project, err)
	}

	var res domain.SimulationResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("load result %q: decode: %w", project, err)
	}
	return &res, nil
}
