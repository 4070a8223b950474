package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fubot-be/internal/bootstrap"
	"fubot-be/internal/config"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/server"
	"fubot-be/internal/tracer"
	"fubot-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Tracing, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(context.Background(), gormDB, cfg.Database.Driver); err != nil {
		log.Panicf("Unable to migrate database: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}

	// 5. Start Background Services
	if err := container.SummaryConsumer.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start summary consumer: %v", err)
	}

	// 6. Initialize Server
	srv := server.New(cfg, container, sysLogger)

	go func() {
		if err := srv.Run(); err != nil {
			sysLogger.Error("HTTP", "Server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 7. Graceful shutdown: HTTP first, then the queue
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sysLogger.Info("HTTP", "Shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sysLogger.Error("HTTP", "Forced shutdown", map[string]interface{}{"error": err.Error()})
	}
	container.Close()
}
