package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"field-schedule-service/internal/adapters/repositories"
	"field-schedule-service/internal/config"
	"field-schedule-service/internal/platform/db"
)

// dbtool provisions the shared Postgres deployment database: schema
// plus seed data. Local runs seed embedded SQLite on server startup and
// do not need this tool.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/schedule.json")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(db); err != nil {
		return fmt.Errorf("schema initialization: %w", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedPostgresFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
