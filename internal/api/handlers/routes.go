package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"field-schedule-service/internal/api/dto"
	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/ports"
	"field-schedule-service/internal/services"
)

var validate = validator.New()

// RouteHandler exposes the worker-facing daily route endpoint.
type RouteHandler struct {
	Builder   *services.RouteBuilder
	Optimizer *services.Optimizer
	Weather   ports.WeatherSource

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Route builds (and optionally weather-optimizes) one worker's route
// for one date. Optimization only applies to today's route; for any
// other date the flag is ignored.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	q := dto.RouteQuery{
		WorkerID:  r.URL.Query().Get("worker_id"),
		Date:      r.URL.Query().Get("date"),
		Optimized: r.URL.Query().Get("optimized") == "true",
	}
	if err := validate.Struct(q); err != nil {
		writeError(w, r, http.StatusBadRequest, "worker_id is required; date must be YYYY-MM-DD")
		return
	}

	date := domain.DayOf(now)
	if q.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q.Date, now.Location())
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	route, err := h.Builder.BuildRoute(r.Context(), q.WorkerID, date)
	if err != nil {
		log.Printf("build route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	var snap *domain.WeatherSnapshot
	optimized := false
	if q.Optimized && domain.SameDay(date, now) {
		snap, err = h.Weather.Snapshot(r.Context())
		if err != nil {
			// Unknown weather degrades to the built order.
			log.Printf("weather snapshot unavailable: %v", err)
			snap = nil
		}
		if snap != nil {
			before := route
			route = h.Optimizer.Optimize(route, snap, now)
			optimized = route != before
		}
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(route, snap, optimized))
}

func toRouteResponse(route *domain.WorkerRoute, snap *domain.WeatherSnapshot, optimized bool) dto.RouteResponse {
	res := dto.RouteResponse{
		WorkerID:  route.WorkerID,
		Date:      route.Date.Format("2006-01-02"),
		Optimized: optimized,
		Stops:     make([]dto.StopResponse, 0, len(route.Stops)),
	}

	for _, stop := range route.Stops {
		sr := dto.StopResponse{
			BuildingID:      stop.BuildingID,
			BuildingName:    stop.BuildingName,
			ArriveAt:        stop.ArriveAt,
			DurationMinutes: int(stop.EstimatedDuration.Minutes()),
			Locked:          stop.Locked,
			Operations:      make([]dto.OperationResponse, 0, len(stop.Operations)),
		}

		worst := services.ScoredTask{Chip: services.ChipGoodWindow, Display: services.ChipGoodWindow}
		worstRank := -1
		for _, op := range stop.Operations {
			sr.Operations = append(sr.Operations, dto.OperationResponse{
				Name:            op.Name,
				Category:        string(op.Category),
				DurationMinutes: int(op.EstimatedDuration.Minutes()),
				RequiresPhoto:   op.RequiresPhoto,
				Urgency:         int(op.Urgency),
			})

			if snap != nil {
				scored := services.Score(op, stop.ScheduledAt, snap)
				if rank := services.ChipRank(scored.Chip); rank > worstRank {
					worstRank = rank
					worst = scored
				}
			}
		}

		if snap != nil && worstRank >= 0 {
			sr.Chip = string(worst.Display)
			sr.Advice = worst.Advice
		}

		res.Stops = append(res.Stops, sr)
	}

	return res
}
