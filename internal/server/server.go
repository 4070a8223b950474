package server

import (
	"context"
	"path/filepath"
	"time"

	"fubot-be/internal/bootstrap"
	"fubot-be/internal/config"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
	log       logger.ILogger
}

func New(cfg *config.Config, container *bootstrap.Container, log logger.ILogger) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ErrorHandler: serverutils.ErrorHandler(log),
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	// Front end
	app.Static("/static", cfg.App.FrontendDir)
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendFile(filepath.Join(cfg.App.FrontendDir, "index.html"))
	})

	app.Get("/healthz", healthz(container))

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
		log:       log,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.log.Info("HTTP", "Server is running", map[string]interface{}{
		"addr": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.AuthController.RegisterRoutes(app)
	c.ChatController.RegisterRoutes(app)
	c.PasscodeController.RegisterRoutes(app)
}

func healthz(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sqlDB, err := c.DB.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return ctx.JSON(fiber.Map{"status": "ok"})
	}
}
