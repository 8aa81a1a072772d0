package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"discoveryspark/adapters/postgres"
	"discoveryspark/adapters/render"
	"discoveryspark/internal"
	"discoveryspark/internal/config"
	"discoveryspark/ui"
)

// Web entrypoint: serves the report dashboard backed by Postgres.
// The CLI pipeline lives in cmd/spark.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL must be set for the dashboard")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReportRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate report schema: %v", err)
	}

	dashboard := ui.NewApp(repo, render.NewMarkdownRenderer(), internal.DefaultLogger)
	if err := dashboard.Serve(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("dashboard stopped: %v", err)
	}
}
