package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the deployment Postgres database via pgx and verifies
// the connection. Local runs use embedded SQLite instead; this path is
// for the shared environment the dbtool provisions.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
