package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/config"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/database"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/logger"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/routes"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
	seatws "github.com/najimahamed22/sportZoneAcademy-server/internal/websocket"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() {
		_ = zlog.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		zlog.Fatal("DB_URL is required")
	}
	db, err := database.Connect(ctx, cfg.DBUrl)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 3. Background workers
	hub := seatws.NewHub(zlog.Named("seatfeed"))
	go hub.Run(ctx)

	reconciler := services.NewSettlementReconciler(
		repository.NewSettlementRepository(db),
		cfg.ReconcileAfter,
		zlog.Named("reconciler"),
	)
	go reconciler.Run(ctx, cfg.ReconcileInterval)

	// 4. Setup Fiber
	app := fiber.New()

	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, db, hub, zlog); err != nil {
		zlog.Fatal("Failed to register routes", zap.Error(err))
	}

	// 5. Start Server
	go func() {
		<-ctx.Done()
		zlog.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("Shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Server failed to start", zap.Error(err))
	}
}
