package services

import (
	"context"
	"testing"
	"time"

	"field-schedule-service/internal/adapters/repositories"
	"field-schedule-service/internal/domain"
)

func dailyAt(hour, minute int) domain.RecurrenceRule {
	return domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Hour: hour, Minute: minute}
}

func TestBuildRouteSortedAscending(t *testing.T) {
	templates := &repositories.MockTemplateRepository{
		Templates: map[string][]domain.AssignmentTemplate{
			"w1": {
				{
					BuildingID: "b2", BuildingName: "Oak House",
					Operations: []domain.Operation{{Name: "Sweep stairwells", Category: domain.CategoryStairwell, EstimatedDuration: 30 * time.Minute}},
					Rule:       dailyAt(11, 0),
					Sequence:   0,
				},
				{
					BuildingID: "b1", BuildingName: "Maple Court",
					Operations: []domain.Operation{{Name: "Mop lobby", Category: domain.CategoryLobby, EstimatedDuration: 20 * time.Minute}},
					Rule:       dailyAt(9, 0),
					Sequence:   1,
				},
			},
		},
	}
	builder := NewRouteBuilder(templates, &repositories.MockComplianceRepository{})

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	route, err := builder.BuildRoute(context.Background(), "w1", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(route.Stops))
	}
	if route.Stops[0].BuildingID != "b1" || route.Stops[1].BuildingID != "b2" {
		t.Fatalf("expected stops ordered b1, b2; got %s, %s", route.Stops[0].BuildingID, route.Stops[1].BuildingID)
	}
	if !route.Stops[0].ArriveAt.Before(route.Stops[1].ArriveAt) {
		t.Fatalf("expected strictly ascending arrival times")
	}
}

func TestBuildRouteEmptyIsDayOff(t *testing.T) {
	builder := NewRouteBuilder(&repositories.MockTemplateRepository{}, &repositories.MockComplianceRepository{})

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	route, err := builder.BuildRoute(context.Background(), "w9", date)
	if err != nil {
		t.Fatalf("expected a day off, not an error: %v", err)
	}
	if len(route.Stops) != 0 {
		t.Fatalf("expected an empty stop list, got %d stops", len(route.Stops))
	}
}

func TestBuildRouteTieBreakBySequence(t *testing.T) {
	// Two templates land on the same default slot only if their rules
	// carry the same time of day; ties must break on configuration order,
	// not building name.
	templates := &repositories.MockTemplateRepository{
		Templates: map[string][]domain.AssignmentTemplate{
			"w1": {
				{
					BuildingID: "b-zeta", BuildingName: "Zeta Flats",
					Operations: []domain.Operation{{Name: "Inspect roof", Category: domain.CategoryInspection, EstimatedDuration: 15 * time.Minute}},
					Rule:       dailyAt(10, 0),
					Sequence:   2,
				},
				{
					BuildingID: "b-alpha", BuildingName: "Alpha Flats",
					Operations: []domain.Operation{{Name: "Inspect basement", Category: domain.CategoryInspection, EstimatedDuration: 15 * time.Minute}},
					Rule:       dailyAt(10, 0),
					Sequence:   5,
				},
			},
		},
	}
	builder := NewRouteBuilder(templates, &repositories.MockComplianceRepository{})

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	route, err := builder.BuildRoute(context.Background(), "w1", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Stops[0].BuildingID != "b-zeta" {
		t.Fatalf("expected sequence 2 before sequence 5, got %s first", route.Stops[0].BuildingID)
	}
}

func TestBuildRouteDefaultSlots(t *testing.T) {
	// Rules without a time of day take stable slots from shift start.
	templates := &repositories.MockTemplateRepository{
		Templates: map[string][]domain.AssignmentTemplate{
			"w1": {
				{
					BuildingID: "b1", BuildingName: "Maple Court",
					Operations: []domain.Operation{{Name: "Mop lobby", Category: domain.CategoryLobby, EstimatedDuration: 20 * time.Minute}},
					Rule:       domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Hour: -1},
					Sequence:   0,
				},
				{
					BuildingID: "b2", BuildingName: "Oak House",
					Operations: []domain.Operation{{Name: "Sweep stairwells", Category: domain.CategoryStairwell, EstimatedDuration: 30 * time.Minute}},
					Rule:       domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Hour: -1},
					Sequence:   1,
				},
			},
		},
	}
	builder := NewRouteBuilder(templates, &repositories.MockComplianceRepository{})

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	route, err := builder.BuildRoute(context.Background(), "w1", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want0 := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	want1 := want0.Add(45 * time.Minute)
	if !route.Stops[0].ArriveAt.Equal(want0) {
		t.Fatalf("expected first default slot at 08:00, got %s", route.Stops[0].ArriveAt)
	}
	if !route.Stops[1].ArriveAt.Equal(want1) {
		t.Fatalf("expected second default slot at 08:45, got %s", route.Stops[1].ArriveAt)
	}
}

func TestBuildRouteInjectsComplianceStops(t *testing.T) {
	templates := &repositories.MockTemplateRepository{
		Templates: map[string][]domain.AssignmentTemplate{
			"w1": {
				{
					BuildingID: "b1", BuildingName: "Maple Court",
					Operations: []domain.Operation{{Name: "Mop lobby", Category: domain.CategoryLobby, EstimatedDuration: 20 * time.Minute}},
					Rule:       dailyAt(9, 0),
					Sequence:   0,
				},
				// Second template at the same building must not duplicate
				// its compliance stops.
				{
					BuildingID: "b1", BuildingName: "Maple Court",
					Operations: []domain.Operation{{Name: "Sweep stairwells", Category: domain.CategoryStairwell, EstimatedDuration: 30 * time.Minute}},
					Rule:       dailyAt(13, 0),
					Sequence:   1,
				},
			},
		},
	}
	compliance := &repositories.MockComplianceRepository{
		Windows: map[string][]domain.ComplianceWindow{
			"b1": {{
				BuildingID:        "b1",
				CollectionDays:    domain.NewWeekdaySet(time.Sunday, time.Tuesday, time.Thursday),
				SetOutHour:        20,
				RetrievalHour:     7,
				RequiresRetrieval: true,
			}},
		},
	}
	builder := NewRouteBuilder(templates, compliance)

	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	route, err := builder.BuildRoute(context.Background(), "w1", tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Monday-evening set-out, Tuesday retrieval, plus the two template
	// stops. Exactly one compliance pair despite two templates at b1.
	if len(route.Stops) != 4 {
		t.Fatalf("expected 4 stops, got %d", len(route.Stops))
	}

	lockedCount := 0
	for _, stop := range route.Stops {
		if stop.Locked {
			lockedCount++
		}
	}
	if lockedCount != 2 {
		t.Fatalf("expected 2 locked stops, got %d", lockedCount)
	}

	for i := 1; i < len(route.Stops); i++ {
		if route.Stops[i].ArriveAt.Before(route.Stops[i-1].ArriveAt) {
			t.Fatalf("expected ascending arrival times with compliance stops merged in")
		}
	}
}
