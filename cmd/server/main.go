package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"field-schedule-service/internal/adapters/cache"
	"field-schedule-service/internal/adapters/repositories"
	weatheradapter "field-schedule-service/internal/adapters/weather"
	"field-schedule-service/internal/api"
	"field-schedule-service/internal/config"
	"field-schedule-service/internal/platform/db"
	"field-schedule-service/internal/ports"
	"field-schedule-service/internal/scheduler"
	"field-schedule-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Open-Meteo) behind
// ports, constructs the scheduling engine, and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		database      *sql.DB
		templates     ports.TemplateRepository
		compliance    ports.ComplianceRepository
		workers       ports.WorkerDirectory
		forecastStore weatheradapter.ForecastStore
	)

	if cfg.DatabaseURL != "" {
		database, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		store := repositories.NewPostgresStore(database)
		templates, compliance, workers = store, store, store
		forecastStore = cache.NewSQLForecastCache(database)
	} else {
		database, err = openSqlite(cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		// Initialize schema and seed demo data on startup for local runs.
		if err := initAndSeed(database, cfg.SeedPath); err != nil {
			log.Fatal(err)
		}
		templates = repositories.NewSqliteTemplateRepository(database)
		compliance = repositories.NewSqliteComplianceRepository(database)
		workers = repositories.NewSqliteWorkerDirectory(database)
		forecastStore = cache.NewSqliteForecastCache(database)
	}
	defer database.Close()

	// Forecasts come from Open-Meteo behind a persistent last-good
	// snapshot cache; a provider outage degrades to stale data, which
	// the optimizer treats as unknown weather.
	httpClient := &http.Client{Timeout: 10 * time.Second}
	liveWeather := weatheradapter.NewOpenMeteoSource(httpClient, cfg.WeatherBaseURL, cfg.Latitude, cfg.Longitude)
	weatherSource := weatheradapter.NewCachedSource(liveWeather, forecastStore, cfg.SnapshotMaxAge)

	refresher := scheduler.New(weatherSource, cfg.RefreshInterval)
	if err := refresher.Start(); err != nil {
		log.Fatalf("start weather refresher: %v", err)
	}
	defer refresher.Stop()

	builder := services.NewRouteBuilder(templates, compliance)
	builder.ShiftStartHour = cfg.ShiftStartHour

	optimizer := services.NewOptimizer()
	optimizer.Freshness = cfg.SnapshotMaxAge
	optimizer.TravelBuffer = cfg.TravelBuffer
	optimizer.ShiftStartHour = cfg.ShiftStartHour
	optimizer.ShiftEndHour = cfg.ShiftEndHour

	aggregator := services.NewScheduleAggregator(builder, optimizer, workers, weatherSource)
	aggregator.FetchTimeout = cfg.FetchTimeout

	router := api.NewRouter(builder, optimizer, aggregator, weatherSource, time.Now)

	// Write timeout allows for cold-cache month aggregations.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openSqlite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
