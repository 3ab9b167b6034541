package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"field-schedule-service/internal/adapters/repositories"
	"field-schedule-service/internal/adapters/weather"
	"field-schedule-service/internal/api/dto"
	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/services"
)

var errTest = errors.New("provider unavailable")

func testRouteHandler(weatherSource *weather.MockSource, now time.Time) *RouteHandler {
	templates := &repositories.MockTemplateRepository{
		Templates: map[string][]domain.AssignmentTemplate{
			"w1": {
				{
					BuildingID: "b1", BuildingName: "Maple Court",
					Operations: []domain.Operation{{Name: "Weed beds", Category: domain.CategoryGarden, EstimatedDuration: 40 * time.Minute}},
					Rule:       domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Hour: 9},
					Sequence:   0,
				},
				{
					BuildingID: "b2", BuildingName: "Oak House",
					Operations: []domain.Operation{{Name: "Mop lobby", Category: domain.CategoryLobby, EstimatedDuration: 20 * time.Minute}},
					Rule:       domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Hour: 10},
					Sequence:   1,
				},
			},
		},
	}

	return &RouteHandler{
		Builder:   services.NewRouteBuilder(templates, &repositories.MockComplianceRepository{}),
		Optimizer: services.NewOptimizer(),
		Weather:   weatherSource,
		Now:       func() time.Time { return now },
	}
}

func TestRouteHandlerMissingWorkerID(t *testing.T) {
	h := testRouteHandler(&weather.MockSource{}, time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	h.Route(rec, httptest.NewRequest(http.MethodGet, "/routes", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without worker_id, got %d", rec.Code)
	}
}

func TestRouteHandlerBuildsRoute(t *testing.T) {
	h := testRouteHandler(&weather.MockSource{}, time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	h.Route(rec, httptest.NewRequest(http.MethodGet, "/routes?worker_id=w1&date=2026-03-03", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res dto.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(res.Stops))
	}
	if res.Optimized {
		t.Fatalf("expected unoptimized route without the flag")
	}
	if res.Stops[0].BuildingID != "b1" {
		t.Fatalf("expected the 09:00 stop first, got %s", res.Stops[0].BuildingID)
	}
}

func TestRouteHandlerOptimizesToday(t *testing.T) {
	now := time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC)
	rainy := &domain.WeatherSnapshot{
		FetchedAt: now,
		Condition: domain.ConditionRain,
		Hours: []domain.HourBlock{
			{Time: now.Add(2 * time.Hour), PrecipProb: 0.8, TemperatureF: 55},
			{Time: now.Add(3 * time.Hour), PrecipProb: 0.8, TemperatureF: 55},
		},
	}
	h := testRouteHandler(&weather.MockSource{Snap: rainy}, now)

	rec := httptest.NewRecorder()
	h.Route(rec, httptest.NewRequest(http.MethodGet, "/routes?worker_id=w1&date=2026-03-03&optimized=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res dto.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Optimized {
		t.Fatalf("expected an optimized route")
	}
	// The rain-sensitive garden stop moves behind the indoor stop and
	// carries the heavy rain chip.
	if res.Stops[len(res.Stops)-1].BuildingID != "b1" {
		t.Fatalf("expected the garden stop last, got %s", res.Stops[len(res.Stops)-1].BuildingID)
	}
	if res.Stops[len(res.Stops)-1].Chip != "heavy_rain" {
		t.Fatalf("expected heavy_rain chip, got %q", res.Stops[len(res.Stops)-1].Chip)
	}
}

func TestRouteHandlerWeatherFailureDegrades(t *testing.T) {
	now := time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC)
	h := testRouteHandler(&weather.MockSource{Err: errTest}, now)

	rec := httptest.NewRecorder()
	h.Route(rec, httptest.NewRequest(http.MethodGet, "/routes?worker_id=w1&date=2026-03-03&optimized=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected the built route despite the weather failure, got %d", rec.Code)
	}

	var res dto.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Optimized {
		t.Fatalf("expected unoptimized route when the forecast is unavailable")
	}
}

func TestRouteHandlerRejectsPost(t *testing.T) {
	h := testRouteHandler(&weather.MockSource{}, time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	h.Route(rec, httptest.NewRequest(http.MethodPost, "/routes?worker_id=w1", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", rec.Code)
	}
}
