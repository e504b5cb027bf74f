package repositories

import (
	"context"
	"database/sql"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/platform/obs"
	"dispatch-simulation-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the ResultRepository port. Every saved
// result is kept under its own run id; loads return the newest one.
type SQLResultRepository struct{ DB *sql.DB }

func NewSQLResultRepository(db *sql.DB) *SQLResultRepository {
	return &SQLResultRepository{DB: db}
}

// SaveResult assigns a run id when the result has none.
func (s *SQLResultRepository) SaveResult(
	ctx context.Context,
	project string,
	result *domain.SimulationResult,
) (err error) {
	defer obs.Time(ctx, "results.Save")(&err)

	if s.DB == nil {
		return errors.New("sql result repository: DB is nil")
	}
	if result == nil {
		return errors.New("save result: result is nil")
	}

	runID, err := uuid.Parse(result.Metadata.RunID)
	if err != nil {
		runID = uuid.New()
		result.Metadata.RunID = runID.String()
	}

	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("save result %q: encode: %w", project, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO simulation_results (run_id, project, generated_at, cancelled, result)
	VALUES ($1, $2, $3, $4, $5::jsonb)
	ON CONFLICT (run_id) DO UPDATE
	SET result = EXCLUDED.result,
		cancelled = EXCLUDED.cancelled;
	`, runID.String(), project, result.Metadata.GeneratedAt, result.Metadata.Cancelled, string(b))
	if err != nil {
		return fmt.Errorf("save result %q: insert simulation_results: %w", project, err)
	}

	return nil
}

func (s *SQLResultRepository) LoadResult(ctx context.Context, project string) (_ *domain.SimulationResult, err error) {
	defer obs.Time(ctx, "results.Load")(&err)

	if s.DB == nil {
		return nil, errors.New("sql result repository: DB is nil")
	}

	query := `
	SELECT result
	FROM simulation_results
	WHERE project = $1
	ORDER BY generated_at DESC
	LIMIT 1;
	`

	var raw []byte
	if err := s.DB.QueryRowContext(ctx, query, project).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load result %q: %w", project, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("load result %q: query simulation_results: %w", project, err)
	}

	var res domain.SimulationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("load result %q: decode: %w", project, err)
	}
	return &res, nil
}
