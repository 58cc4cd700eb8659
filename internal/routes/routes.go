package routes

import (
	"context"
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/config"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/handlers"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/middleware"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
	seatws "github.com/najimahamed22/sportZoneAcademy-server/internal/websocket"
	"go.uber.org/zap"
)

type settlementUnitOfWork interface {
	Within(ctx context.Context, fn func(repos services.SettlementRepos) error) error
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, hub *seatws.Hub, logger *zap.Logger) error {
	if db == nil {
		return errors.New("database pool is required")
	}
	return register(app, cfg, db, services.NewPgSettlementUnitOfWork(db), hub, logger)
}

func register(
	app *fiber.App,
	cfg *config.Config,
	store repository.DBTX,
	uow settlementUnitOfWork,
	hub *seatws.Hub,
	logger *zap.Logger,
) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if hub == nil {
		return errors.New("seat feed hub is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(store)
	classRepo := repository.NewClassRepository(store)
	selectionRepo := repository.NewSelectionRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)
	settlementRepo := repository.NewSettlementRepository(store)
	sliderRepo := repository.NewSliderRepository(store)

	var gateway services.PaymentGateway
	if cfg.PaymentsEnabled() {
		gateway = services.NewStripeGateway(cfg.PaymentSecretKey)
	} else {
		logger.Warn("PAYMENT_SECRET_KEY not set, payment intents are disabled")
	}

	gate := middleware.NewGate(
		middleware.NewCredentialVerifier(cfg.AccessTokenSecret),
		services.NewRoleResolver(userRepo),
		logger.Named("gate"),
	)

	authHandler := handlers.NewAuthHandler(cfg.AccessTokenSecret, cfg.TokenTTL)
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo, logger.Named("users")))
	classHandler := handlers.NewClassHandler(services.NewClassService(classRepo, sliderRepo, logger.Named("classes")))
	selectionHandler := handlers.NewSelectionHandler(services.NewSelectionService(selectionRepo, classRepo, logger.Named("selections")))
	paymentHandler := handlers.NewPaymentHandler(
		services.NewPaymentService(gateway, cfg.PaymentCurrency, paymentRepo, logger.Named("payments")),
		services.NewSettlementService(uow, settlementRepo, hub, cfg.SettlementTimeout, logger.Named("settlements")),
	)
	seatFeedHandler := handlers.NewSeatFeedHandler(hub)

	admin := gate.Require(models.RoleAdmin)
	instructorOrAdmin := gate.Require(models.RoleInstructor, models.RoleAdmin)
	student := gate.Require(models.RoleStudent)
	studentOrAdmin := gate.Require(models.RoleStudent, models.RoleAdmin)

	app.Post("/jwt", authHandler.IssueToken)
	app.Get("/slider", classHandler.Sliders)

	app.Post("/users", userHandler.Register)
	app.Get("/users", admin, userHandler.List)
	app.Get("/users/role/:email", userHandler.Role)
	app.Patch("/users/admin/:id", admin, userHandler.MakeAdmin)
	app.Patch("/users/instructor/:id", admin, userHandler.MakeInstructor)

	app.Get("/classes", classHandler.List)
	app.Get("/top-classes", classHandler.TopClasses)
	app.Get("/instructors", classHandler.Instructors)
	app.Get("/allInstructor", classHandler.TopInstructors)
	app.Get("/classes/instructor/:email", instructorOrAdmin, classHandler.ListByInstructor)
	app.Post("/classes", instructorOrAdmin, classHandler.Create)
	app.Patch("/classes/approve/:id", admin, classHandler.Approve)
	app.Patch("/classes/deny/:id", admin, classHandler.Deny)
	app.Patch("/classes/feedback/:id", admin, classHandler.Feedback)
	app.Patch("/classes/:id", instructorOrAdmin, classHandler.Update)

	app.Post("/selected-classes", student, selectionHandler.Create)
	app.Get("/selected-classes", admin, selectionHandler.List)
	app.Get("/selected-classes/id/:id", studentOrAdmin, selectionHandler.Get)
	app.Get("/selected-classes/:email", studentOrAdmin, selectionHandler.ListByStudent)
	app.Delete("/selected-classes/:id", studentOrAdmin, selectionHandler.Delete)

	app.Post("/create-payment-intent", student, paymentHandler.CreateIntent)
	app.Post("/payments", studentOrAdmin, paymentHandler.Settle)
	app.Get("/payments/:email", studentOrAdmin, paymentHandler.History)
	app.Get("/settlements", admin, paymentHandler.Settlements)

	app.Use("/ws/seats", seatFeedHandler.Upgrade)
	app.Get("/ws/seats", websocket.New(seatFeedHandler.HandleWebSocket))

	return nil
}
