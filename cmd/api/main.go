package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/infrastructure/mail"
	"github.com/jhoicas/restock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restock-api/internal/infrastructure/shopify"
	"github.com/jhoicas/restock-api/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/restock-api/internal/interfaces/http"
	"github.com/jhoicas/restock-api/pkg/config"
	"github.com/jhoicas/restock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	runRepo := postgres.NewRunRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockLocRepo := postgres.NewStockLocationRepository(pool)
	workItemRepo := postgres.NewWorkItemRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	shopifyClient := shopify.NewClient()
	mailer := mail.NewGomailSender(cfg.SMTP)
	poster := webhook.NewPoster()

	filter := restock.NewChannelFilter(log)
	evaluator := restock.NewEvaluator(log)
	reconciler := restock.NewReconciler(itemRepo, workItemRepo, log)

	runUC := restock.NewRunUseCase(
		settingsRepo, runRepo, itemRepo,
		shopifyClient, shopifyClient,
		filter, evaluator, reconciler,
		mailer, poster, log,
	)
	reportUC := restock.NewReportUseCase(settingsRepo, shopifyClient, shopifyClient)
	transferUC := restock.NewTransferUseCase(
		txRunner, itemRepo, productRepo, stockLocRepo,
		locationRepo, runRepo, settingsRepo, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Restock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RunUC:        runUC,
		ReportUC:     reportUC,
		TransferUC:   transferUC,
		RunRepo:      runRepo,
		ItemRepo:     itemRepo,
		LocationRepo: locationRepo,
		SettingsRepo: settingsRepo,
		WorkItemRepo: workItemRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
