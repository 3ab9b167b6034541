package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres deployment schema. Same tables as the SQLite
// schema, but surrogate keys the seeder never supplies (operation_id,
// window_id) are declared as identity columns; SQLite auto-assigns an
// INTEGER PRIMARY KEY as a rowid alias, Postgres does not.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createWorkersQuery := `
	CREATE TABLE IF NOT EXISTS workers (
		worker_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);
	`

	createTemplatesQuery := `
	CREATE TABLE IF NOT EXISTS templates (
		template_id INTEGER PRIMARY KEY,
		worker_id TEXT NOT NULL,
		building_id TEXT NOT NULL,
		building_name TEXT NOT NULL,
		frequency TEXT NOT NULL,
		weekdays TEXT NOT NULL DEFAULT '',
		hour INTEGER NOT NULL DEFAULT -1,
		minute INTEGER NOT NULL DEFAULT 0,
		seq INTEGER NOT NULL DEFAULT 0
	);
	`

	createOperationsQuery := `
	CREATE TABLE IF NOT EXISTS template_operations (
		operation_id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		template_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		requires_photo INTEGER NOT NULL DEFAULT 0,
		urgency INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0
	);
	`

	createWindowsQuery := `
	CREATE TABLE IF NOT EXISTS compliance_windows (
		window_id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		building_id TEXT NOT NULL,
		collection_days TEXT NOT NULL,
		set_out_hour INTEGER NOT NULL,
		set_out_minute INTEGER NOT NULL DEFAULT 0,
		retrieval_hour INTEGER NOT NULL,
		retrieval_minute INTEGER NOT NULL DEFAULT 0,
		requires_retrieval INTEGER NOT NULL DEFAULT 0
	);
	`

	createForecastQuery := `
	CREATE TABLE IF NOT EXISTS forecast_snapshots (
		snapshot_id INTEGER PRIMARY KEY CHECK (snapshot_id = 1),
		fetched_at TEXT NOT NULL,
		temperature_f REAL NOT NULL DEFAULT 0,
		wind_mph REAL NOT NULL DEFAULT 0,
		condition TEXT NOT NULL DEFAULT 'unknown'
	);
	`

	createForecastHoursQuery := `
	CREATE TABLE IF NOT EXISTS forecast_hours (
		hour_ts TEXT PRIMARY KEY,
		precip_prob REAL NOT NULL,
		wind_mph REAL NOT NULL,
		temperature_f REAL NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_templates_worker
	ON templates(worker_id, seq);
	`

	createWindowIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_compliance_windows_building
	ON compliance_windows(building_id);
	`

	statements := []string{
		createWorkersQuery,
		createTemplatesQuery,
		createOperationsQuery,
		createWindowsQuery,
		createForecastQuery,
		createForecastHoursQuery,
		createIndexQuery,
		createWindowIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
