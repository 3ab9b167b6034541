package services

import (
	"testing"
	"time"

	"field-schedule-service/internal/domain"
)

func TestGenerateComplianceTasksCollectionDay(t *testing.T) {
	windows := []domain.ComplianceWindow{{
		BuildingID:        "b1",
		CollectionDays:    domain.NewWeekdaySet(time.Sunday, time.Tuesday, time.Thursday),
		SetOutHour:        20,
		RetrievalHour:     7,
		RetrievalMinute:   30,
		RequiresRetrieval: true,
	}}

	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	stops := GenerateComplianceTasks(windows, "b1", "Maple Court", tuesday)
	if len(stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(stops))
	}

	setOut := stops[0]
	wantSetOut := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	if !setOut.ArriveAt.Equal(wantSetOut) {
		t.Fatalf("expected set-out Monday 20:00, got %s", setOut.ArriveAt)
	}
	if !setOut.Locked {
		t.Fatalf("expected set-out stop to be locked")
	}
	if setOut.Operations[0].Category != domain.CategoryCompliance {
		t.Fatalf("expected compliance category, got %s", setOut.Operations[0].Category)
	}
	if !setOut.Operations[0].RequiresPhoto {
		t.Fatalf("expected set-out to require photo proof")
	}

	retrieval := stops[1]
	wantRetrieval := time.Date(2026, 3, 3, 7, 30, 0, 0, time.UTC)
	if !retrieval.ArriveAt.Equal(wantRetrieval) {
		t.Fatalf("expected retrieval Tuesday 07:30, got %s", retrieval.ArriveAt)
	}
	if !retrieval.Locked {
		t.Fatalf("expected retrieval stop to be locked")
	}
}

func TestGenerateComplianceTasksNonCollectionDay(t *testing.T) {
	windows := []domain.ComplianceWindow{{
		BuildingID:     "b1",
		CollectionDays: domain.NewWeekdaySet(time.Tuesday),
		SetOutHour:     20,
	}}

	wednesday := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	if stops := GenerateComplianceTasks(windows, "b1", "Maple Court", wednesday); len(stops) != 0 {
		t.Fatalf("expected no stops on a non-collection day, got %d", len(stops))
	}
}

func TestGenerateComplianceTasksNoRetrieval(t *testing.T) {
	windows := []domain.ComplianceWindow{{
		BuildingID:     "b1",
		CollectionDays: domain.NewWeekdaySet(time.Tuesday),
		SetOutHour:     20,
	}}

	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	stops := GenerateComplianceTasks(windows, "b1", "Maple Court", tuesday)
	if len(stops) != 1 {
		t.Fatalf("expected only the set-out stop, got %d stops", len(stops))
	}
}

func TestGenerateComplianceTasksNoWindows(t *testing.T) {
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	if stops := GenerateComplianceTasks(nil, "b1", "Maple Court", tuesday); len(stops) != 0 {
		t.Fatalf("expected a building with no windows to yield nothing")
	}
}
