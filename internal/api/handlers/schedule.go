package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"field-schedule-service/internal/api/dto"
	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/services"
)

// ScheduleHandler exposes the oversight/portfolio calendar endpoints.
type ScheduleHandler struct {
	Aggregator *services.ScheduleAggregator
}

// Week returns the Monday-through-Sunday week containing the reference
// date, grouped by weekday.
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	q, ref, ok := h.bindQuery(w, r)
	if !ok {
		return
	}

	grouped, err := h.Aggregator.LoadWeek(r.Context(), ref, services.AggregateOptions{
		WorkerID:         q.WorkerID,
		BuildingID:       q.BuildingID,
		WeatherOptimized: q.Optimized,
	})
	if err != nil {
		log.Printf("load week failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.WeekScheduleResponse{Days: make(map[string][]dto.ScheduleItemResponse, len(grouped))}
	for weekday, items := range grouped {
		res.Days[weekday.String()] = toItemResponses(items)
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Month returns the calendar month containing the reference date,
// grouped by day of month.
func (h *ScheduleHandler) Month(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	q, ref, ok := h.bindQuery(w, r)
	if !ok {
		return
	}

	grouped, err := h.Aggregator.LoadMonth(r.Context(), ref, services.AggregateOptions{
		WorkerID:         q.WorkerID,
		BuildingID:       q.BuildingID,
		WeatherOptimized: q.Optimized,
	})
	if err != nil {
		log.Printf("load month failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.MonthScheduleResponse{Days: make(map[string][]dto.ScheduleItemResponse, len(grouped))}
	for day, items := range grouped {
		res.Days[strconv.Itoa(day)] = toItemResponses(items)
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ScheduleHandler) bindQuery(w http.ResponseWriter, r *http.Request) (dto.ScheduleQuery, time.Time, bool) {
	q := dto.ScheduleQuery{
		Date:       r.URL.Query().Get("date"),
		WorkerID:   r.URL.Query().Get("worker_id"),
		BuildingID: r.URL.Query().Get("building_id"),
		Optimized:  r.URL.Query().Get("optimized") == "true",
	}
	if err := validate.Struct(q); err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return q, time.Time{}, false
	}

	ref := time.Now()
	if h.Aggregator.Now != nil {
		ref = h.Aggregator.Now()
	}
	if q.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q.Date, ref.Location())
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return q, time.Time{}, false
		}
		ref = parsed
	}

	return q, ref, true
}

func toItemResponses(items []domain.ScheduleItem) []dto.ScheduleItemResponse {
	res := make([]dto.ScheduleItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, dto.ScheduleItemResponse{
			Day:          item.Day.Format("2006-01-02"),
			Start:        item.Start,
			End:          item.End,
			BuildingID:   item.BuildingID,
			BuildingName: item.BuildingName,
			WorkerID:     item.WorkerID,
			WorkerName:   item.WorkerName,
			Title:        item.Title,
			TaskCount:    item.TaskCount,
			Locked:       item.Locked,
		})
	}
	return res
}
