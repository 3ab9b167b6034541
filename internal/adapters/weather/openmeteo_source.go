package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"field-schedule-service/internal/domain"
)

// OpenMeteoSource implements the WeatherSource port against the
// Open-Meteo forecast API (no API key required). It returns the current
// conditions plus the next 24 hourly blocks in the units the scheduling
// engine works in (mph, Fahrenheit, probability 0..1).
type OpenMeteoSource struct {
	client    *http.Client
	baseURL   string
	latitude  float64
	longitude float64
	backoff   BackoffConfig
	circuit   *gobreaker.CircuitBreaker
	now       func() time.Time
}

func NewOpenMeteoSource(client *http.Client, baseURL string, latitude, longitude float64) *OpenMeteoSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}

	return &OpenMeteoSource{
		client:    client,
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
		now:     time.Now,
	}
}

type openMeteoPayload struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Hourly struct {
		Time          []string  `json:"time"`
		PrecipProb    []float64 `json:"precipitation_probability"`
		WindSpeed10m  []float64 `json:"wind_speed_10m"`
		Temperature2m []float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

func (s *OpenMeteoSource) Snapshot(ctx context.Context) (*domain.WeatherSnapshot, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", s.latitude))
		values.Set("longitude", fmt.Sprintf("%f", s.longitude))
		values.Set("current_weather", "true")
		values.Set("hourly", "precipitation_probability,wind_speed_10m,temperature_2m")
		values.Set("forecast_hours", "24")
		values.Set("windspeed_unit", "mph")
		values.Set("wind_speed_unit", "mph")
		values.Set("temperature_unit", "fahrenheit")
		values.Set("timeformat", "iso8601")
		values.Set("timezone", "UTC")

		return http.NewRequest(http.MethodGet, s.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequest(ctx, s.client, s.backoff, s.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("openmeteo snapshot: %w", err)
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openmeteo snapshot: decode response: %w", err)
	}

	snap := &domain.WeatherSnapshot{
		FetchedAt:    s.now().UTC(),
		TemperatureF: payload.CurrentWeather.Temperature,
		WindSpeedMPH: payload.CurrentWeather.WindSpeed,
		Condition:    mapWeatherCode(payload.CurrentWeather.WeatherCode),
	}

	for i, raw := range payload.Hourly.Time {
		ts, err := parseHourTime(raw)
		if err != nil {
			continue // skip unparseable entries, keep the rest
		}
		block := domain.HourBlock{Time: ts}
		if i < len(payload.Hourly.PrecipProb) {
			block.PrecipProb = payload.Hourly.PrecipProb[i] / 100.0
		}
		if i < len(payload.Hourly.WindSpeed10m) {
			block.WindSpeedMPH = payload.Hourly.WindSpeed10m[i]
		}
		if i < len(payload.Hourly.Temperature2m) {
			block.TemperatureF = payload.Hourly.Temperature2m[i]
		}
		snap.Hours = append(snap.Hours, block)
	}

	return snap, nil
}

// parseHourTime accepts RFC3339 and Open-Meteo's shorter iso8601 form.
func parseHourTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

// mapWeatherCode reduces Open-Meteo weather codes to the normalized
// condition enum (simplified mapping).
func mapWeatherCode(code int) domain.Condition {
	switch {
	case code == 0:
		return domain.ConditionClear
	case code >= 1 && code <= 3:
		return domain.ConditionCloudy
	case code >= 45 && code <= 48:
		return domain.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return domain.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return domain.ConditionSnow
	case code >= 95:
		return domain.ConditionStorm
	default:
		return domain.ConditionUnknown
	}
}
