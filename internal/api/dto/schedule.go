package dto

import "time"

// ScheduleQuery binds the query parameters shared by the week and month
// portfolio endpoints.
type ScheduleQuery struct {
	Date       string `validate:"omitempty,datetime=2006-01-02"`
	WorkerID   string
	BuildingID string
	Optimized  bool
}

type ScheduleItemResponse struct {
	Day          string    `json:"day"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	BuildingID   string    `json:"building_id"`
	BuildingName string    `json:"building_name"`
	WorkerID     string    `json:"worker_id"`
	WorkerName   string    `json:"worker_name"`
	Title        string    `json:"title"`
	TaskCount    int       `json:"task_count"`
	Locked       bool      `json:"locked"`
}

type WeekScheduleResponse struct {
	// Keyed by weekday name (Monday..Sunday).
	Days map[string][]ScheduleItemResponse `json:"days"`
}

type MonthScheduleResponse struct {
	// Keyed by day of month ("1".."31").
	Days map[string][]ScheduleItemResponse `json:"days"`
}
