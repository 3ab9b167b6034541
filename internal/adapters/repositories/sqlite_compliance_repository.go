package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"field-schedule-service/internal/domain"
)

// SQLite-backed implementation of the ComplianceRepository port.
type SqliteComplianceRepository struct{ DB *sql.DB }

func NewSqliteComplianceRepository(db *sql.DB) *SqliteComplianceRepository {
	return &SqliteComplianceRepository{DB: db}
}

// Return the compliance windows for a building. No rows is a valid
// empty result, not an error.
func (s *SqliteComplianceRepository) ListWindows(ctx context.Context, buildingID string) ([]domain.ComplianceWindow, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite compliance repository: DB is nil")
	}

	query := `
	SELECT
		building_id,
		collection_days,
		set_out_hour,
		set_out_minute,
		retrieval_hour,
		retrieval_minute,
		requires_retrieval
	FROM compliance_windows
	WHERE building_id = ?
	ORDER BY window_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list compliance windows: query compliance_windows table: %w", err)
	}
	defer rows.Close()

	windows := make([]domain.ComplianceWindow, 0, 2)
	for rows.Next() {
		var (
			w         domain.ComplianceWindow
			days      string
			retrieval int
		)
		err := rows.Scan(
			&w.BuildingID, &days, &w.SetOutHour, &w.SetOutMinute,
			&w.RetrievalHour, &w.RetrievalMinute, &retrieval,
		)
		if err != nil {
			return nil, fmt.Errorf("list compliance windows: scan row: %w", err)
		}
		w.CollectionDays = domain.NewWeekdaySet(parseWeekdays(days)...)
		w.RequiresRetrieval = retrieval != 0
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compliance windows: row iteration: %w", err)
	}

	return windows, nil
}
