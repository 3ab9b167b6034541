package domain

// ComplianceWindow is immutable reference data describing a building's
// municipal collection schedule: the weekdays containers are collected,
// the fixed evening set-out time, and the morning retrieval deadline.
type ComplianceWindow struct {
	BuildingID      string
	CollectionDays  WeekdaySet
	SetOutHour      int // evening before a collection day
	SetOutMinute    int
	RetrievalHour   int // morning of the collection day
	RetrievalMinute int
	// RequiresRetrieval is true when staff must bring containers back
	// in; some buildings leave that to residents.
	RequiresRetrieval bool
}
