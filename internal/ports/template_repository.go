package ports

import (
	"context"
	"field-schedule-service/internal/domain"
)

// Port: a boundary for retrieving a worker's recurring assignment
// templates from a data source.
type TemplateRepository interface {
	// Return all assignment templates for a worker. Empty means the
	// worker has nothing assigned; it is never an error.
	ListTemplates(ctx context.Context, workerID string) ([]domain.AssignmentTemplate, error)
}
