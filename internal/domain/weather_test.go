package domain

import (
	"testing"
	"time"
)

func TestWeatherSnapshotStaleAt(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	fresh := &WeatherSnapshot{FetchedAt: now.Add(-30 * time.Minute)}
	if fresh.StaleAt(now, 2*time.Hour) {
		t.Fatalf("expected 30m old snapshot to be fresh at 2h max age")
	}

	old := &WeatherSnapshot{FetchedAt: now.Add(-3 * time.Hour)}
	if !old.StaleAt(now, 2*time.Hour) {
		t.Fatalf("expected 3h old snapshot to be stale at 2h max age")
	}

	if !(*WeatherSnapshot)(nil).StaleAt(now, 2*time.Hour) {
		t.Fatalf("expected nil snapshot to be stale")
	}

	if old.StaleAt(now, 0) {
		t.Fatalf("expected zero max age to mean never stale")
	}
}

func TestWeatherSnapshotNearestHour(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	snap := &WeatherSnapshot{
		Hours: []HourBlock{
			{Time: base, TemperatureF: 60},
			{Time: base.Add(1 * time.Hour), TemperatureF: 65},
			{Time: base.Add(2 * time.Hour), TemperatureF: 70},
		},
	}

	h, ok := snap.NearestHour(base.Add(70 * time.Minute))
	if !ok {
		t.Fatalf("expected an hour block")
	}
	if h.TemperatureF != 65 {
		t.Fatalf("expected the 09:00 block, got temperature %.0f", h.TemperatureF)
	}

	// Before the first block and after the last, the boundary block wins.
	h, _ = snap.NearestHour(base.Add(-4 * time.Hour))
	if h.TemperatureF != 60 {
		t.Fatalf("expected the first block, got temperature %.0f", h.TemperatureF)
	}
	h, _ = snap.NearestHour(base.Add(10 * time.Hour))
	if h.TemperatureF != 70 {
		t.Fatalf("expected the last block, got temperature %.0f", h.TemperatureF)
	}

	if _, ok := (&WeatherSnapshot{}).NearestHour(base); ok {
		t.Fatalf("expected ok=false for a snapshot with no hours")
	}
}
