package ports

import (
	"context"
	"field-schedule-service/internal/domain"
)

// Port: a boundary for listing the active workforce.
type WorkerDirectory interface {
	ListActiveWorkers(ctx context.Context) ([]domain.Worker, error)
}
