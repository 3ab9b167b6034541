package weather

import (
	"context"

	"field-schedule-service/internal/domain"
)

// MockSource returns a fixed snapshot (or error) for tests.
type MockSource struct {
	Snap *domain.WeatherSnapshot
	Err  error
}

func (m *MockSource) Snapshot(_ context.Context) (*domain.WeatherSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snap, nil
}
