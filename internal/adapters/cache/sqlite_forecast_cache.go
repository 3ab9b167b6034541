package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/platform/obs"
)

// ErrNoSnapshot is returned when no forecast has been persisted yet.
var ErrNoSnapshot = errors.New("forecast cache: no snapshot stored")

// SqliteForecastCache persists the last good weather snapshot so a
// provider outage degrades to "stale snapshot, skip optimization"
// instead of empty data after a restart. A single row holds the current
// conditions; forecast_hours holds the hourly blocks.
type SqliteForecastCache struct {
	DB *sql.DB
}

func NewSqliteForecastCache(db *sql.DB) *SqliteForecastCache {
	return &SqliteForecastCache{DB: db}
}

// Save replaces the stored snapshot with the given one.
func (c *SqliteForecastCache) Save(ctx context.Context, snap *domain.WeatherSnapshot) (err error) {
	defer obs.Time(ctx, "forecast.cache.Save")(&err)

	if c.DB == nil {
		return errors.New("forecast cache: db is nil")
	}
	if snap == nil {
		return errors.New("forecast cache: snapshot is nil")
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save forecast: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT OR REPLACE INTO forecast_snapshots (
		snapshot_id, fetched_at, temperature_f, wind_mph, condition
	)
	VALUES (1, ?, ?, ?, ?);
	`, snap.FetchedAt.UTC().Format(time.RFC3339), snap.TemperatureF, snap.WindSpeedMPH, string(snap.Condition))
	if err != nil {
		return fmt.Errorf("save forecast: upsert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecast_hours;`); err != nil {
		return fmt.Errorf("save forecast: clear hours: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO forecast_hours (hour_ts, precip_prob, wind_mph, temperature_f)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save forecast: prepare hour insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range snap.Hours {
		ts := h.Time.UTC().Format(time.RFC3339)
		if _, err := stmt.ExecContext(ctx, ts, h.PrecipProb, h.WindSpeedMPH, h.TemperatureF); err != nil {
			return fmt.Errorf("save forecast: insert hour %s: %w", ts, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save forecast: commit tx: %w", err)
	}

	return nil
}

// Load returns the stored snapshot, or ErrNoSnapshot when none exists.
// The snapshot may be arbitrarily stale; freshness is the caller's call.
func (c *SqliteForecastCache) Load(ctx context.Context) (_ *domain.WeatherSnapshot, err error) {
	defer obs.Time(ctx, "forecast.cache.Load")(&err)

	if c.DB == nil {
		return nil, errors.New("forecast cache: db is nil")
	}

	var (
		fetchedAt string
		snap      domain.WeatherSnapshot
		condition string
	)
	row := c.DB.QueryRowContext(ctx, `
	SELECT fetched_at, temperature_f, wind_mph, condition
	FROM forecast_snapshots
	WHERE snapshot_id = 1;
	`)
	if err := row.Scan(&fetchedAt, &snap.TemperatureF, &snap.WindSpeedMPH, &condition); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("load forecast: scan snapshot row: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("load forecast: parse fetched_at %q: %w", fetchedAt, err)
	}
	snap.FetchedAt = ts
	snap.Condition = domain.Condition(condition)

	rows, err := c.DB.QueryContext(ctx, `
	SELECT hour_ts, precip_prob, wind_mph, temperature_f
	FROM forecast_hours
	ORDER BY hour_ts;
	`)
	if err != nil {
		return nil, fmt.Errorf("load forecast: query hours: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hourTS string
			h      domain.HourBlock
		)
		if err := rows.Scan(&hourTS, &h.PrecipProb, &h.WindSpeedMPH, &h.TemperatureF); err != nil {
			return nil, fmt.Errorf("load forecast: scan hour row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, hourTS)
		if err != nil {
			return nil, fmt.Errorf("load forecast: parse hour_ts %q: %w", hourTS, err)
		}
		h.Time = t
		snap.Hours = append(snap.Hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load forecast: hour row iteration: %w", err)
	}

	return &snap, nil
}
