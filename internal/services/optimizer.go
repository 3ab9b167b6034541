package services

import (
	"sort"
	"time"

	"field-schedule-service/internal/domain"
)

// Optimizer reorders a route's weather-movable stops against a forecast
// while honoring locked compliance stops.
//
// Optimization is meaningful only for today's route; forecasts for
// other dates are not trusted in this design, and callers gate on that.
type Optimizer struct {
	// Freshness is the maximum snapshot age before optimization is
	// skipped entirely.
	Freshness time.Duration
	// TravelBuffer is the fixed inter-stop travel allowance used when
	// arrival times are recomputed.
	TravelBuffer time.Duration
	// ShiftStartHour / ShiftEndHour bound the working day; no movable
	// stop is placed outside it.
	ShiftStartHour int
	ShiftEndHour   int
}

func NewOptimizer() *Optimizer {
	return &Optimizer{
		Freshness:      2 * time.Hour,
		TravelBuffer:   15 * time.Minute,
		ShiftStartHour: 8,
		ShiftEndHour:   18,
	}
}

// Optimize returns a new route with movable stops reordered by weather
// preference: good windows first, heavy rain pushed as late as the
// remaining slots allow. Locked stops keep their exact arrival times.
//
// A nil or stale snapshot returns the input route unchanged; guessing
// is worse than leaving the built order alone. The input is never
// mutated.
func (o *Optimizer) Optimize(route *domain.WorkerRoute, snap *domain.WeatherSnapshot, now time.Time) *domain.WorkerRoute {
	if route == nil || len(route.Stops) == 0 {
		return route
	}
	if snap == nil || snap.StaleAt(now, o.Freshness) {
		return route
	}

	out := route.Clone()

	var locked []domain.RouteSequence
	type rankedStop struct {
		stop     domain.RouteSequence
		severity int
		order    int
	}
	var movable []rankedStop

	for i, stop := range out.Stops {
		if stop.Locked {
			locked = append(locked, stop)
			continue
		}
		movable = append(movable, rankedStop{
			stop:     stop,
			severity: stopSeverity(stop, snap),
			order:    i,
		})
	}

	if len(movable) == 0 {
		return out
	}

	// Severity first, then the incoming order. Scoring keys off each
	// stop's rule-scheduled time, not its current arrival, so repeated
	// optimization against the same snapshot converges to one order.
	sort.SliceStable(movable, func(i, j int) bool {
		if movable[i].severity != movable[j].severity {
			return movable[i].severity < movable[j].severity
		}
		return movable[i].order < movable[j].order
	})

	day := out.Date
	shiftStart := day.Add(time.Duration(o.ShiftStartHour) * time.Hour)
	shiftEnd := day.Add(time.Duration(o.ShiftEndHour) * time.Hour)

	cursor := shiftStart
	if now.After(cursor) {
		cursor = now
	}

	// Locked intervals the cursor must flow around, in time order.
	sort.Slice(locked, func(i, j int) bool { return locked[i].ArriveAt.Before(locked[j].ArriveAt) })

	stops := make([]domain.RouteSequence, 0, len(out.Stops))
	stops = append(stops, locked...)

	for _, m := range movable {
		cursor = skipLocked(cursor, m.stop.EstimatedDuration, locked, o.TravelBuffer)

		arrive := cursor
		if arrive.Add(m.stop.EstimatedDuration).After(shiftEnd) {
			// The stop cannot finish by shift end. Pulling it back to
			// an earlier slot would overlap a stop already placed, so
			// it stays at the cursor and the day runs long; an
			// overloaded shift must stay visible in the schedule.
			clamped := shiftEnd.Add(-m.stop.EstimatedDuration)
			if clamped.Before(cursor) {
				clamped = cursor
			}
			arrive = clamped
		}

		m.stop.ArriveAt = arrive
		stops = append(stops, m.stop)
		cursor = arrive.Add(m.stop.EstimatedDuration + o.TravelBuffer)
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].ArriveAt.Before(stops[j].ArriveAt)
	})

	out.Stops = stops
	return out
}

// skipLocked advances the cursor past any locked stop whose window
// (including travel buffer) would overlap a visit of the given duration.
func skipLocked(cursor time.Time, dur time.Duration, locked []domain.RouteSequence, buffer time.Duration) time.Time {
	for _, l := range locked {
		lockedEnd := l.End().Add(buffer)
		if cursor.Before(lockedEnd) && cursor.Add(dur+buffer).After(l.ArriveAt) {
			cursor = lockedEnd
		}
	}
	return cursor
}

// stopSeverity is the worst (most severe) chip across a stop's
// operations, each scored at the stop's rule-scheduled time.
func stopSeverity(stop domain.RouteSequence, snap *domain.WeatherSnapshot) int {
	worst := 0
	for _, op := range stop.Operations {
		scored := Score(op, stop.ScheduledAt, snap)
		if s := chipSeverity(scored.Chip); s > worst {
			worst = s
		}
	}
	return worst
}
