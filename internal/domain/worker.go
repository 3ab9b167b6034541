package domain

import "time"

// Worker identifies one field worker.
type Worker struct {
	ID   string
	Name string
}

// AssignmentTemplate is a worker's recurring assignment at one building:
// the operations to perform and the rule that says when. Templates are
// collaborator data and arrive already validated.
type AssignmentTemplate struct {
	BuildingID   string
	BuildingName string
	Operations   []Operation
	Rule         RecurrenceRule
	// Sequence is the stable configuration order used for tie-breaking
	// and for default arrival slots when a rule has no time of day.
	Sequence int
}

// EstimatedDuration sums the template's operation durations.
func (t AssignmentTemplate) EstimatedDuration() time.Duration {
	var total time.Duration
	for _, op := range t.Operations {
		total += op.EstimatedDuration
	}
	return total
}
