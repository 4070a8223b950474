package main

import (
	"context"
	"fmt"
	"os"

	"fubot-be/internal/config"
	"fubot-be/pkg/database"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	cfg := config.Load()

	db, err := database.NewQuietGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	if err := database.Migrate(context.Background(), db, cfg.Database.Driver); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(db, cfg, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
