package domain

import "time"

// ScheduleItem is a denormalized row for portfolio calendar views.
// Items are derived from built routes, read-only, and rebuilt every time
// the aggregator runs.
type ScheduleItem struct {
	Day          time.Time // midnight of the item's calendar day
	Start        time.Time
	End          time.Time
	BuildingID   string
	BuildingName string
	WorkerID     string
	WorkerName   string
	Title        string
	TaskCount    int
	Locked       bool
}
