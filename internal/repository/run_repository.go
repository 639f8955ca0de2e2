package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// RunRepository records ingest runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores a finished run
func (r *RunRepository) Create(ctx context.Context, run *models.IngestRun) error {
	query := `
		INSERT INTO ingest_runs (
			id, source, lines, hops, loaded, rejected, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.Lines,
		run.Hops,
		run.Loaded,
		run.Rejected,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingest run: %w", err)
	}
	return nil
}

// List returns a page of runs, newest first, and the total count
func (r *RunRepository) List(ctx context.Context, filter models.RunFilter) ([]models.IngestRun, int64, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingest_runs").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ingest runs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, lines, hops, loaded, rejected, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC, id
		LIMIT ? OFFSET ?`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []models.IngestRun
	for rows.Next() {
		var run models.IngestRun
		err := rows.Scan(
			&run.ID, &run.Source, &run.Lines, &run.Hops,
			&run.Loaded, &run.Rejected, &run.StartedAt, &run.FinishedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate ingest runs: %w", err)
	}
	return runs, total, nil
}
