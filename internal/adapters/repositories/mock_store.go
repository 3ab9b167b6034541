package repositories

import (
	"context"

	"field-schedule-service/internal/domain"
)

// In-memory implementations of the scheduling ports, for tests and
// local runs without a database. Deterministic: data comes back exactly
// as configured.

type MockTemplateRepository struct {
	Templates map[string][]domain.AssignmentTemplate
	Err       error
}

func (m *MockTemplateRepository) ListTemplates(_ context.Context, workerID string) ([]domain.AssignmentTemplate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Templates[workerID], nil
}

type MockComplianceRepository struct {
	Windows map[string][]domain.ComplianceWindow
	Err     error
}

func (m *MockComplianceRepository) ListWindows(_ context.Context, buildingID string) ([]domain.ComplianceWindow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Windows[buildingID], nil
}

type MockWorkerDirectory struct {
	Workers []domain.Worker
	Err     error
}

func (m *MockWorkerDirectory) ListActiveWorkers(_ context.Context) ([]domain.Worker, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Workers, nil
}
