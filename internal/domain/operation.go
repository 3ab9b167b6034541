package domain

import "time"

// Category classifies a unit of work for weather-sensitivity lookups.
type Category string

const (
	CategoryTrashArea  Category = "trash_area"
	CategoryGarden     Category = "garden"
	CategoryExterior   Category = "exterior"
	CategoryWindow     Category = "window"
	CategorySanitation Category = "sanitation"
	CategoryLobby      Category = "lobby"
	CategoryStairwell  Category = "stairwell"
	CategoryInspection Category = "inspection"
	CategoryCompliance Category = "compliance"
)

// Urgency orders how pressing an operation is. Urgent and above asserts
// the task proceeds regardless of weather.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyElevated
	UrgencyUrgent
)

// Operation is a single unit of work performed at a stop.
type Operation struct {
	Name              string
	Category          Category
	EstimatedDuration time.Duration
	RequiresPhoto     bool
	Urgency           Urgency
}
