package ports

import (
	"context"
	"field-schedule-service/internal/domain"
)

// Port: a boundary for the municipal collection-window reference data.
type ComplianceRepository interface {
	// Return the compliance windows for a building. Empty means the
	// building has no municipal schedule; it is never an error.
	ListWindows(ctx context.Context, buildingID string) ([]domain.ComplianceWindow, error)
}
