package main

import (
	"context"
	"log"

	"fubot-be/internal/config"
	"fubot-be/pkg/database"
)

func main() {
	// 1. Load Configuration (.env included)
	cfg := config.Load()

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Apply embedded goose migrations
	log.Printf("Running migrations (driver: %s)...", cfg.Database.Driver)
	if err := database.Migrate(context.Background(), db, cfg.Database.Driver); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully.")
}
