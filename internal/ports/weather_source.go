package ports

import (
	"context"
	"field-schedule-service/internal/domain"
)

// Port: a boundary for retrieving the current weather snapshot.
type WeatherSource interface {
	// Return the latest snapshot. A nil snapshot or an error both mean
	// "weather unknown"; callers degrade to unoptimized scheduling.
	Snapshot(ctx context.Context) (*domain.WeatherSnapshot, error)
}
