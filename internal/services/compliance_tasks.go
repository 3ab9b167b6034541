package services

import (
	"time"

	"field-schedule-service/internal/domain"
)

// Durations for the two mandatory container operations. These are short,
// fixed visits; the regulatory deadline is the arrival time itself.
const (
	setOutDuration    = 15 * time.Minute
	retrievalDuration = 10 * time.Minute
)

// GenerateComplianceTasks derives the mandatory set-out/retrieval stops
// for one building on one calendar date.
//
// When the date's weekday is in a window's collection set, the building
// gets a locked set-out stop at the fixed time the evening before and,
// if staff retrieval is required, a locked retrieval stop on the morning
// of the date. Locked stops are injected unconditionally; weather never
// removes, skips, or reorders them. A building with no windows yields
// nothing, which is not an error.
func GenerateComplianceTasks(
	windows []domain.ComplianceWindow,
	buildingID string,
	buildingName string,
	date time.Time,
) []domain.RouteSequence {
	day := domain.DayOf(date)

	var stops []domain.RouteSequence
	for _, w := range windows {
		if w.BuildingID != "" && w.BuildingID != buildingID {
			continue
		}
		if !w.CollectionDays.Has(day.Weekday()) {
			continue
		}

		setOutAt := day.AddDate(0, 0, -1).
			Add(time.Duration(w.SetOutHour)*time.Hour + time.Duration(w.SetOutMinute)*time.Minute)
		stops = append(stops, domain.RouteSequence{
			BuildingID:   buildingID,
			BuildingName: buildingName,
			Operations: []domain.Operation{{
				Name:              "Set out collection containers",
				Category:          domain.CategoryCompliance,
				EstimatedDuration: setOutDuration,
				RequiresPhoto:     true,
			}},
			ScheduledAt:       setOutAt,
			ArriveAt:          setOutAt,
			EstimatedDuration: setOutDuration,
			Locked:            true,
		})

		if w.RequiresRetrieval {
			retrieveAt := day.
				Add(time.Duration(w.RetrievalHour)*time.Hour + time.Duration(w.RetrievalMinute)*time.Minute)
			stops = append(stops, domain.RouteSequence{
				BuildingID:   buildingID,
				BuildingName: buildingName,
				Operations: []domain.Operation{{
					Name:              "Retrieve collection containers",
					Category:          domain.CategoryCompliance,
					EstimatedDuration: retrievalDuration,
					RequiresPhoto:     true,
				}},
				ScheduledAt:       retrieveAt,
				ArriveAt:          retrieveAt,
				EstimatedDuration: retrievalDuration,
				Locked:            true,
			})
		}
	}

	return stops
}
