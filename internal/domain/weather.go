package domain

import "time"

// Condition is a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// HourBlock is one hourly forecast entry.
type HourBlock struct {
	Time         time.Time
	PrecipProb   float64 // 0..1
	WindSpeedMPH float64
	TemperatureF float64
}

// WeatherSnapshot holds current conditions plus an ordered hourly
// forecast spanning at least the next 12 hours. Snapshots come from an
// external provider, are read-only, and may be stale; callers must treat
// age beyond their freshness threshold as "unknown weather".
type WeatherSnapshot struct {
	FetchedAt    time.Time
	TemperatureF float64
	WindSpeedMPH float64
	Condition    Condition
	Hours        []HourBlock
}

// StaleAt reports whether the snapshot is older than maxAge at the given
// instant. A zero maxAge means snapshots never go stale.
func (s *WeatherSnapshot) StaleAt(now time.Time, maxAge time.Duration) bool {
	if s == nil {
		return true
	}
	if maxAge <= 0 {
		return false
	}
	return now.Sub(s.FetchedAt) > maxAge
}

// NearestHour returns the hour block closest to t by absolute time
// delta. ok is false when the snapshot carries no hourly data.
func (s *WeatherSnapshot) NearestHour(t time.Time) (HourBlock, bool) {
	if s == nil || len(s.Hours) == 0 {
		return HourBlock{}, false
	}

	best := s.Hours[0]
	bestDelta := absDuration(t.Sub(best.Time))
	for _, h := range s.Hours[1:] {
		d := absDuration(t.Sub(h.Time))
		if d < bestDelta {
			best = h
			bestDelta = d
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
