package api

import (
	"net/http"
	"time"

	"field-schedule-service/internal/api/handlers"
	"field-schedule-service/internal/ports"
	"field-schedule-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware
// of concrete adapters.
func NewRouter(
	builder *services.RouteBuilder,
	optimizer *services.Optimizer,
	aggregator *services.ScheduleAggregator,
	weather ports.WeatherSource,
	now func() time.Time,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Builder:   builder,
		Optimizer: optimizer,
		Weather:   weather,
		Now:       now,
	}
	scheduleHandler := &handlers.ScheduleHandler{Aggregator: aggregator}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.Route)
	mux.HandleFunc("/schedule/week", scheduleHandler.Week)
	mux.HandleFunc("/schedule/month", scheduleHandler.Month)

	return loggingMiddleware(mux)
}
