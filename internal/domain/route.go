package domain

import "time"

// RouteSequence is a single stop on a worker's route: one building visit
// with its ordered operations and computed arrival time.
//
// ScheduledAt is the rule-derived due time and never changes after the
// route is built; ArriveAt starts equal to it and is the only field the
// optimizer may move. Locked stops carry a hard compliance deadline and
// keep their arrival time forever.
type RouteSequence struct {
	BuildingID        string
	BuildingName      string
	Operations        []Operation
	ScheduledAt       time.Time
	ArriveAt          time.Time
	EstimatedDuration time.Duration
	Locked            bool
}

// End returns the estimated completion time of the stop.
func (s RouteSequence) End() time.Time {
	return s.ArriveAt.Add(s.EstimatedDuration)
}

// WorkerRoute is one worker's full ordered stop list for one calendar day.
// Identity is (WorkerID, Date). Routes are built fresh per request and
// never mutated in place; re-optimization produces a new value.
type WorkerRoute struct {
	WorkerID string
	Date     time.Time // midnight of the route's calendar day
	Stops    []RouteSequence
}

// Clone returns a deep copy so optimization can never alias the input.
func (r *WorkerRoute) Clone() *WorkerRoute {
	if r == nil {
		return nil
	}
	stops := make([]RouteSequence, len(r.Stops))
	copy(stops, r.Stops)
	for i := range stops {
		if len(r.Stops[i].Operations) > 0 {
			ops := make([]Operation, len(r.Stops[i].Operations))
			copy(ops, r.Stops[i].Operations)
			stops[i].Operations = ops
		}
	}
	return &WorkerRoute{WorkerID: r.WorkerID, Date: r.Date, Stops: stops}
}
