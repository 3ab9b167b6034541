package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"field-schedule-service/internal/domain"
)

// SQLite-backed implementation of the WorkerDirectory port.
type SqliteWorkerDirectory struct{ DB *sql.DB }

func NewSqliteWorkerDirectory(db *sql.DB) *SqliteWorkerDirectory {
	return &SqliteWorkerDirectory{DB: db}
}

// Return all active workers ordered by id.
func (s *SqliteWorkerDirectory) ListActiveWorkers(ctx context.Context) ([]domain.Worker, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite worker directory: DB is nil")
	}

	query := `
	SELECT
		worker_id,
		name
	FROM workers
	WHERE active = 1
	ORDER BY worker_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active workers: query workers table: %w", err)
	}
	defer rows.Close()

	workers := make([]domain.Worker, 0, 16)
	for rows.Next() {
		var w domain.Worker
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("list active workers: scan row: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active workers: row iteration: %w", err)
	}

	return workers, nil
}
