package services

import (
	"fmt"
	"time"

	"field-schedule-service/internal/domain"
)

// Chip is a coarse weather-compatibility classification attached to a
// task for advisory display. Chips never block execution; they feed the
// optimizer's soft-preference ranking.
type Chip string

const (
	ChipGoodWindow Chip = "good_window"
	ChipWet        Chip = "wet"
	ChipHeavyRain  Chip = "heavy_rain"
	ChipWindy      Chip = "windy"
	ChipHot        Chip = "hot"
	ChipCold       Chip = "cold"
	ChipUrgent     Chip = "urgent"
)

// chipSeverity orders chips for the optimizer: good windows first,
// heavy rain pushed last (postponement beats cancellation).
func chipSeverity(c Chip) int {
	switch c {
	case ChipWet:
		return 1
	case ChipWindy:
		return 2
	case ChipHot, ChipCold:
		return 3
	case ChipHeavyRain:
		return 4
	default:
		return 0
	}
}

// ChipRank exposes the severity ordering for display layers that need
// a stop's worst chip.
func ChipRank(c Chip) int { return chipSeverity(c) }

// ScoredTask pairs an operation with its weather classification.
// Scored tasks are ephemeral: recomputed on every scoring run, never
// persisted.
type ScoredTask struct {
	Operation domain.Operation
	DueAt     time.Time
	// Chip is the computed weather classification.
	Chip Chip
	// Display is what the UI shows. Urgent tasks display the urgent
	// marker but keep Chip for the advisory text, so urgency asserts
	// the task proceeds without hiding the warning.
	Display Chip
	Advice  string
}

// Score classifies one operation against one forecast snapshot.
//
// Indoor tasks are never weather-penalized. Absent or hour-less
// snapshots score as a good window: missing data must never synthesize
// a false warning.
func Score(op domain.Operation, dueAt time.Time, snap *domain.WeatherSnapshot) ScoredTask {
	scored := ScoredTask{
		Operation: op,
		DueAt:     dueAt,
		Chip:      ChipGoodWindow,
		Display:   ChipGoodWindow,
	}

	profile := ProfileFor(op.Category)
	if profile.IsOutdoor {
		if hour, ok := snap.NearestHour(dueAt); ok {
			scored.Chip, scored.Advice = classify(profile, hour)
			scored.Display = scored.Chip
		}
	}

	if op.Urgency >= UrgencyOverride {
		scored.Display = ChipUrgent
	}

	return scored
}

// UrgencyOverride is the urgency level at or above which the display
// chip becomes the urgent marker.
const UrgencyOverride = domain.UrgencyUrgent

func classify(p WeatherProfile, h domain.HourBlock) (Chip, string) {
	precipMax := p.PrecipProbMax
	if precipMax <= 0 {
		precipMax = defaultPrecipProbMax
	}
	windMax := p.WindMaxMPH
	if windMax <= 0 {
		windMax = defaultWindMaxMPH
	}

	if p.SensitiveToRain {
		if h.PrecipProb >= heavyRainProb {
			return ChipHeavyRain, fmt.Sprintf(
				"heavy rain likely (%.0f%% around %s); postpone if possible",
				h.PrecipProb*100, h.Time.Format("15:04"),
			)
		}
		if h.PrecipProb >= precipMax {
			return ChipWet, fmt.Sprintf(
				"rain possible (%.0f%% around %s); plan for wet conditions",
				h.PrecipProb*100, h.Time.Format("15:04"),
			)
		}
	}

	if p.SensitiveToWind && h.WindSpeedMPH >= windMax {
		return ChipWindy, fmt.Sprintf(
			"wind around %.0f mph expected; secure loose material",
			h.WindSpeedMPH,
		)
	}

	if h.TemperatureF >= hotMaxF {
		return ChipHot, fmt.Sprintf(
			"high of %.0f F; schedule breaks and water",
			h.TemperatureF,
		)
	}
	if h.TemperatureF <= coldMinF {
		return ChipCold, fmt.Sprintf(
			"low of %.0f F; watch for ice on walkways",
			h.TemperatureF,
		)
	}

	return ChipGoodWindow, ""
}
