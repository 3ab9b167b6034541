package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenMeteoSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("temperature_unit") != "fahrenheit" {
			t.Errorf("expected fahrenheit request, got %q", q.Get("temperature_unit"))
		}
		if q.Get("wind_speed_unit") != "mph" {
			t.Errorf("expected mph request, got %q", q.Get("wind_speed_unit"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current_weather": {"temperature": 72.5, "windspeed": 8.0, "weathercode": 61},
			"hourly": {
				"time": ["2026-03-03T08:00", "2026-03-03T09:00", "bogus"],
				"precipitation_probability": [40, 70, 10],
				"wind_speed_10m": [10, 12, 5],
				"temperature_2m": [68, 70, 71]
			}
		}`))
	}))
	defer srv.Close()

	source := NewOpenMeteoSource(srv.Client(), srv.URL, 33.448, -112.074)
	snap, err := source.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.TemperatureF != 72.5 {
		t.Fatalf("expected 72.5F current temperature, got %.1f", snap.TemperatureF)
	}
	if snap.Condition != "rain" {
		t.Fatalf("expected weather code 61 to map to rain, got %s", snap.Condition)
	}

	// The bogus timestamp is skipped, not fatal.
	if len(snap.Hours) != 2 {
		t.Fatalf("expected 2 parseable hour blocks, got %d", len(snap.Hours))
	}
	if snap.Hours[0].PrecipProb != 0.4 {
		t.Fatalf("expected precipitation probability normalized to 0.4, got %.2f", snap.Hours[0].PrecipProb)
	}
	want := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	if !snap.Hours[0].Time.Equal(want) {
		t.Fatalf("expected first block at %s, got %s", want, snap.Hours[0].Time)
	}
}

func TestOpenMeteoSnapshotServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	source := NewOpenMeteoSource(srv.Client(), srv.URL, 33.448, -112.074)
	source.backoff.InitialInterval = time.Millisecond
	source.backoff.MaxInterval = time.Millisecond

	if _, err := source.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected an error for a persistent 500")
	}
}

func TestMapWeatherCode(t *testing.T) {
	cases := map[int]string{
		0:  "clear",
		2:  "cloudy",
		45: "mist",
		61: "rain",
		73: "snow",
		95: "storm",
		42: "unknown",
	}
	for code, want := range cases {
		if got := mapWeatherCode(code); string(got) != want {
			t.Fatalf("code %d: expected %s, got %s", code, want, got)
		}
	}
}
