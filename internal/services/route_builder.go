package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/platform/obs"
	"field-schedule-service/internal/ports"
)

// RouteBuilder assembles a worker's ordered stop sequence for one
// calendar date from assignment templates and compliance windows.
//
// The builder is explicitly constructed with its two read-only
// collaborators; every call is a pure function of (workerID, date) plus
// those collaborators. It holds no mutable state and is safe for
// concurrent use.
type RouteBuilder struct {
	Templates  ports.TemplateRepository
	Compliance ports.ComplianceRepository

	// ShiftStartHour anchors the default arrival slots for templates
	// whose rule carries no time of day.
	ShiftStartHour int
	// StopSpacing separates those default slots, keyed by the stable
	// template sequence order.
	StopSpacing time.Duration
}

func NewRouteBuilder(templates ports.TemplateRepository, compliance ports.ComplianceRepository) *RouteBuilder {
	return &RouteBuilder{
		Templates:      templates,
		Compliance:     compliance,
		ShiftStartHour: 8,
		StopSpacing:    45 * time.Minute,
	}
}

// BuildRoute returns the worker's route for the date.
//
// A worker with no applicable templates and no compliance windows gets
// a route with an empty stop list: a day off, not an error. Errors are
// only ever transport failures from the collaborators.
func (b *RouteBuilder) BuildRoute(ctx context.Context, workerID string, date time.Time) (_ *domain.WorkerRoute, err error) {
	defer obs.Time(ctx, "schedule.BuildRoute")(&err)

	day := domain.DayOf(date)

	templates, err := b.Templates.ListTemplates(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("build route: list templates for worker %q: %w", workerID, err)
	}

	type orderedStop struct {
		stop  domain.RouteSequence
		order int
	}
	stops := make([]orderedStop, 0, len(templates))

	for _, tpl := range templates {
		if !tpl.Rule.AppliesOn(day) {
			continue
		}

		arrive := b.arrivalFor(tpl, day)
		stops = append(stops, orderedStop{
			stop: domain.RouteSequence{
				BuildingID:        tpl.BuildingID,
				BuildingName:      tpl.BuildingName,
				Operations:        tpl.Operations,
				ScheduledAt:       arrive,
				ArriveAt:          arrive,
				EstimatedDuration: tpl.EstimatedDuration(),
			},
			order: tpl.Sequence,
		})
	}

	// Compliance stops for every building the worker touches, once per
	// building even when several templates share one.
	seen := make(map[string]struct{}, len(templates))
	for _, tpl := range templates {
		if _, ok := seen[tpl.BuildingID]; ok {
			continue
		}
		seen[tpl.BuildingID] = struct{}{}

		windows, err := b.Compliance.ListWindows(ctx, tpl.BuildingID)
		if err != nil {
			return nil, fmt.Errorf("build route: list compliance windows for building %q: %w", tpl.BuildingID, err)
		}

		for _, stop := range GenerateComplianceTasks(windows, tpl.BuildingID, tpl.BuildingName, day) {
			stops = append(stops, orderedStop{stop: stop, order: tpl.Sequence})
		}
	}

	// Sort by arrival time; ties break on the stable template order,
	// never on building name (renames must not reorder a route).
	sort.SliceStable(stops, func(i, j int) bool {
		if !stops[i].stop.ArriveAt.Equal(stops[j].stop.ArriveAt) {
			return stops[i].stop.ArriveAt.Before(stops[j].stop.ArriveAt)
		}
		return stops[i].order < stops[j].order
	})

	route := &domain.WorkerRoute{
		WorkerID: workerID,
		Date:     day,
		Stops:    make([]domain.RouteSequence, 0, len(stops)),
	}
	for _, s := range stops {
		route.Stops = append(route.Stops, s.stop)
	}

	return route, nil
}

// arrivalFor derives a stop's arrival time: the rule's time of day when
// present, otherwise a stable default slot by template sequence.
func (b *RouteBuilder) arrivalFor(tpl domain.AssignmentTemplate, day time.Time) time.Time {
	if hour, minute, ok := tpl.Rule.TimeOfDay(); ok {
		return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	start := day.Add(time.Duration(b.ShiftStartHour) * time.Hour)
	return start.Add(time.Duration(tpl.Sequence) * b.StopSpacing)
}
