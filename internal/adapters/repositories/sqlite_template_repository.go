package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"field-schedule-service/internal/domain"
)

// SQLite-backed implementation of the TemplateRepository port.
type SqliteTemplateRepository struct{ DB *sql.DB }

func NewSqliteTemplateRepository(db *sql.DB) *SqliteTemplateRepository {
	return &SqliteTemplateRepository{DB: db}
}

// Return all assignment templates for a worker in stable seq order.
func (s *SqliteTemplateRepository) ListTemplates(ctx context.Context, workerID string) ([]domain.AssignmentTemplate, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite template repository: DB is nil")
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
	WHERE worker_id = ?
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

func (s *SqliteTemplateRepository) listOperations(ctx context.Context, templateID int) ([]domain.Operation, error) {
	query := `
	SELECT
		name,
		category,
		duration_minutes,
		requires_photo,
		urgency
	FROM template_operations
	WHERE template_id = ?
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
