package dto

import "time"

// RouteQuery binds the query parameters of the daily route endpoint.
type RouteQuery struct {
	WorkerID  string `validate:"required"`
	Date      string `validate:"omitempty,datetime=2006-01-02"`
	Optimized bool
}

type OperationResponse struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	RequiresPhoto   bool   `json:"requires_photo"`
	Urgency         int    `json:"urgency"`
}

type StopResponse struct {
	BuildingID      string              `json:"building_id"`
	BuildingName    string              `json:"building_name"`
	ArriveAt        time.Time           `json:"arrive_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	Locked          bool                `json:"locked"`
	Operations      []OperationResponse `json:"operations"`
	Chip            string              `json:"chip,omitempty"`
	Advice          string              `json:"advice,omitempty"`
}

type RouteResponse struct {
	WorkerID  string         `json:"worker_id"`
	Date      string         `json:"date"`
	Optimized bool           `json:"optimized"`
	Stops     []StopResponse `json:"stops"`
}
