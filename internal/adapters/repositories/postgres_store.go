package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"field-schedule-service/internal/domain"
)

// PostgresStore implements the TemplateRepository, ComplianceRepository,
// and WorkerDirectory ports against the shared Postgres deployment
// database. Same tables as the SQLite store; only the placeholder
// dialect differs.
type PostgresStore struct{ DB *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) ListTemplates(ctx context.Context, workerID string) ([]domain.AssignmentTemplate, error) {
	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}

	query := `
	SELECT
		template_id,
		building_id,
		building_name,
		frequency,
		weekdays,
		hour,
		minute,
		seq
	FROM templates
	WHERE worker_id = $1
	ORDER BY seq, template_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: query templates table: %w", err)
	}
	defer rows.Close()

	type templateRow struct {
		id  int
		tpl domain.AssignmentTemplate
	}

	templateRows := make([]templateRow, 0, 16)
	for rows.Next() {
		var (
			r         templateRow
			frequency string
			weekdays  string
			hour      int
			minute    int
		)
		err := rows.Scan(
			&r.id, &r.tpl.BuildingID, &r.tpl.BuildingName,
			&frequency, &weekdays, &hour, &minute, &r.tpl.Sequence,
		)
		if err != nil {
			return nil, fmt.Errorf("list templates: scan row: %w", err)
		}

		r.tpl.Rule = domain.RecurrenceRule{
			Frequency: domain.Frequency(frequency),
			Weekdays:  domain.NewWeekdaySet(parseWeekdays(weekdays)...),
			Hour:      hour,
			Minute:    minute,
		}
		templateRows = append(templateRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: row iteration: %w", err)
	}

	templates := make([]domain.AssignmentTemplate, 0, len(templateRows))
	for _, r := range templateRows {
		ops, err := s.listOperations(ctx, r.id)
		if err != nil {
			return nil, err
		}
		r.tpl.Operations = ops
		templates = append(templates, r.tpl)
	}

	return templates, nil
}

func (s *PostgresStore) listOperations(ctx context.Context, templateID int) ([]domain.Operation, error) {
	query := `
	SELECT
		name,
		category,
		duration_minutes,
		requires_photo,
		urgency
	FROM template_operations
	WHERE template_id = $1
	ORDER BY position, operation_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("list templates: query operations for template %d: %w", templateID, err)
	}
	defer rows.Close()

	var ops []domain.Operation
	for rows.Next() {
		var (
			op       domain.Operation
			category string
			minutes  int
			photo    int
			urgency  int
		)
		if err := rows.Scan(&op.Name, &category, &minutes, &photo, &urgency); err != nil {
			return nil, fmt.Errorf("list templates: scan operation row: %w", err)
		}
		op.Category = domain.Category(category)
		op.EstimatedDuration = time.Duration(minutes) * time.Minute
		op.RequiresPhoto = photo != 0
		op.Urgency = domain.Urgency(urgency)
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: operation row iteration: %w", err)
	}

	return ops, nil
}

func (s *PostgresStore) ListWindows(ctx context.Context, buildingID string) ([]domain.ComplianceWindow, error) {
	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
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
	WHERE building_id = $1
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

func (s *PostgresStore) ListActiveWorkers(ctx context.Context) ([]domain.Worker, error) {
	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
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

// SeedPostgresFromJSON mirrors SeedFromJSON for the Postgres path.
// ON CONFLICT upserts keep the tool idempotent across runs.
func SeedPostgresFromJSON(db *sql.DB, jsonPath string) error {
	seed, err := readSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed schedule: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, w := range seed.Workers {
		_, err := tx.Exec(`
		INSERT INTO workers (worker_id, name, active)
		VALUES ($1, $2, $3)
		ON CONFLICT (worker_id) DO UPDATE
		SET name = EXCLUDED.name, active = EXCLUDED.active;
		`, w.WorkerID, w.Name, boolToInt(w.Active))
		if err != nil {
			return fmt.Errorf("seed schedule: insert worker %q: %w", w.WorkerID, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM template_operations;`); err != nil {
		return fmt.Errorf("seed schedule: clear operations: %w", err)
	}

	for _, t := range seed.Templates {
		hour := -1
		if t.Hour != nil {
			hour = *t.Hour
		}
		_, err := tx.Exec(`
		INSERT INTO templates (
			template_id, worker_id, building_id, building_name,
			frequency, weekdays, hour, minute, seq
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (template_id) DO UPDATE
		SET worker_id = EXCLUDED.worker_id,
			building_id = EXCLUDED.building_id,
			building_name = EXCLUDED.building_name,
			frequency = EXCLUDED.frequency,
			weekdays = EXCLUDED.weekdays,
			hour = EXCLUDED.hour,
			minute = EXCLUDED.minute,
			seq = EXCLUDED.seq;
		`, t.TemplateID, t.WorkerID, t.BuildingID, t.BuildingName,
			t.Frequency, joinWeekdays(t.Weekdays), hour, t.Minute, t.Seq)
		if err != nil {
			return fmt.Errorf("seed schedule: insert template %d: %w", t.TemplateID, err)
		}

		for i, op := range t.Operations {
			_, err := tx.Exec(`
			INSERT INTO template_operations (
				template_id, name, category, duration_minutes, requires_photo, urgency, position
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
			`, t.TemplateID, op.Name, op.Category, op.DurationMinutes,
				boolToInt(op.RequiresPhoto), op.Urgency, i)
			if err != nil {
				return fmt.Errorf("seed schedule: insert operation for template %d: %w", t.TemplateID, err)
			}
		}
	}

	if _, err := tx.Exec(`DELETE FROM compliance_windows;`); err != nil {
		return fmt.Errorf("seed schedule: clear compliance windows: %w", err)
	}

	for _, c := range seed.ComplianceWindows {
		_, err := tx.Exec(`
		INSERT INTO compliance_windows (
			building_id, collection_days, set_out_hour, set_out_minute,
			retrieval_hour, retrieval_minute, requires_retrieval
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
		`, c.BuildingID, joinWeekdays(c.CollectionDays), c.SetOutHour, c.SetOutMinute,
			c.RetrievalHour, c.RetrievalMinute, boolToInt(c.RequiresRetrieval))
		if err != nil {
			return fmt.Errorf("seed schedule: insert window for building %q: %w", c.BuildingID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed schedule: commit tx: %w", err)
	}

	return nil
}
