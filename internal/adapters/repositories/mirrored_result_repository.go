package repositories

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/ports"
	"fmt"
	"log"
)

// MirroredResultRepository saves to Primary and then to every Mirror.
// Loads only read Primary. Mirror failures are logged, not returned.
type MirroredResultRepository struct {
	Primary ports.ResultRepository
	Mirrors []ports.ResultRepository
}

func (m *MirroredResultRepository) SaveResult(ctx context.Context, project string, result *domain.SimulationResult) error {
	if err := m.Primary.SaveResult(ctx, project, result); err != nil {
		return fmt.Errorf("mirrored save: %w", err)
	}
	for i, mirror := range m.Mirrors {
		if err := mirror.SaveResult(ctx, project, result); err != nil {
			log.Printf("mirrored save: mirror #%d project=%s err=%v", i+1, project, err)
		}
	}
	return nil
}

func (m *MirroredResultRepository) LoadResult(ctx context.Context, project string) (*domain.SimulationResult, error) {
	return m.Primary.LoadResult(ctx, project)
}
