package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the embedded SQLite schema. Surrogate keys lean on
// SQLite's rowid aliasing for INTEGER PRIMARY KEY; the Postgres
// deployment path has its own DDL in InitPostgresSchema.
func InitSchema(db *sql.DB) error {
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
		operation_id INTEGER PRIMARY KEY,
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
		window_id INTEGER PRIMARY KEY,
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

type WorkerSeed struct {
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

type OperationSeed struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	RequiresPhoto   bool   `json:"requires_photo"`
	Urgency         int    `json:"urgency"`
}

type TemplateSeed struct {
	TemplateID   int             `json:"template_id"`
	WorkerID     string          `json:"worker_id"`
	BuildingID   string          `json:"building_id"`
	BuildingName string          `json:"building_name"`
	Frequency    string          `json:"frequency"`
	Weekdays     []int           `json:"weekdays"`
	Hour         *int            `json:"hour"`
	Minute       int             `json:"minute"`
	Seq          int             `json:"seq"`
	Operations   []OperationSeed `json:"operations"`
}

type ComplianceSeed struct {
	BuildingID        string `json:"building_id"`
	CollectionDays    []int  `json:"collection_days"`
	SetOutHour        int    `json:"set_out_hour"`
	SetOutMinute      int    `json:"set_out_minute"`
	RetrievalHour     int    `json:"retrieval_hour"`
	RetrievalMinute   int    `json:"retrieval_minute"`
	RequiresRetrieval bool   `json:"requires_retrieval"`
}

type SeedFile struct {
	Workers           []WorkerSeed     `json:"workers"`
	Templates         []TemplateSeed   `json:"templates"`
	ComplianceWindows []ComplianceSeed `json:"compliance_windows"`
}

// Populate the SQLite database with scheduling data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	seed, err := readSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed schedule: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	workerStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO workers (worker_id, name, active)
	VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed schedule: prepare worker insert: %w", err)
	}
	defer workerStmt.Close()

	for _, w := range seed.Workers {
		if _, err := workerStmt.Exec(w.WorkerID, w.Name, boolToInt(w.Active)); err != nil {
			return fmt.Errorf("seed schedule: insert worker %q: %w", w.WorkerID, err)
		}
	}

	tplStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO templates (
		template_id, worker_id, building_id, building_name,
		frequency, weekdays, hour, minute, seq
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed schedule: prepare template insert: %w", err)
	}
	defer tplStmt.Close()

	opStmt, err := tx.Prepare(`
	INSERT INTO template_operations (
		template_id, name, category, duration_minutes, requires_photo, urgency, position
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed schedule: prepare operation insert: %w", err)
	}
	defer opStmt.Close()

	if _, err := tx.Exec(`DELETE FROM template_operations;`); err != nil {
		return fmt.Errorf("seed schedule: clear operations: %w", err)
	}

	for _, t := range seed.Templates {
		hour := -1
		if t.Hour != nil {
			hour = *t.Hour
		}
		if _, err := tplStmt.Exec(
			t.TemplateID, t.WorkerID, t.BuildingID, t.BuildingName,
			t.Frequency, joinWeekdays(t.Weekdays), hour, t.Minute, t.Seq,
		); err != nil {
			return fmt.Errorf("seed schedule: insert template %d: %w", t.TemplateID, err)
		}

		for i, op := range t.Operations {
			if _, err := opStmt.Exec(
				t.TemplateID, op.Name, op.Category, op.DurationMinutes,
				boolToInt(op.RequiresPhoto), op.Urgency, i,
			); err != nil {
				return fmt.Errorf("seed schedule: insert operation for template %d: %w", t.TemplateID, err)
			}
		}
	}

	if _, err := tx.Exec(`DELETE FROM compliance_windows;`); err != nil {
		return fmt.Errorf("seed schedule: clear compliance windows: %w", err)
	}

	winStmt, err := tx.Prepare(`
	INSERT INTO compliance_windows (
		building_id, collection_days, set_out_hour, set_out_minute,
		retrieval_hour, retrieval_minute, requires_retrieval
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed schedule: prepare window insert: %w", err)
	}
	defer winStmt.Close()

	for _, c := range seed.ComplianceWindows {
		if _, err := winStmt.Exec(
			c.BuildingID, joinWeekdays(c.CollectionDays), c.SetOutHour, c.SetOutMinute,
			c.RetrievalHour, c.RetrievalMinute, boolToInt(c.RequiresRetrieval),
		); err != nil {
			return fmt.Errorf("seed schedule: insert window for building %q: %w", c.BuildingID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed schedule: commit tx: %w", err)
	}

	return nil
}

func readSeed(jsonPath string) (*SeedFile, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed schedule: read %q: %w", jsonPath, err)
	}

	var seed SeedFile
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("seed schedule: parse json: %w", err)
	}

	for i, w := range seed.Workers {
		if strings.TrimSpace(w.WorkerID) == "" {
			return nil, fmt.Errorf("seed schedule: worker at index %d: worker_id cannot be empty", i)
		}
	}
	for i, t := range seed.Templates {
		if t.TemplateID <= 0 {
			return nil, fmt.Errorf("seed schedule: invalid template_id at index %d: %d", i, t.TemplateID)
		}
		if strings.TrimSpace(t.BuildingID) == "" {
			return nil, fmt.Errorf("seed schedule: template %d: building_id cannot be empty", t.TemplateID)
		}
	}

	return &seed, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinWeekdays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, fmt.Sprintf("%d", d))
	}
	return strings.Join(parts, ",")
}

// parseWeekdays converts the stored CSV back into a weekday set.
// Malformed entries are skipped; an empty result makes the rule resolve
// to "does not apply", which is the failure mode the engine wants.
func parseWeekdays(csv string) []time.Weekday {
	if csv == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err != nil {
			continue
		}
		if n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
