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
	"github.com/jhoicas/Pdv-api/internal/application/auth"
	"github.com/jhoicas/Pdv-api/internal/application/catalog"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/application/sales"
	"github.com/jhoicas/Pdv-api/internal/application/transfers"
	"github.com/jhoicas/Pdv-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pdv-api/internal/interfaces/http"
	"github.com/jhoicas/Pdv-api/pkg/config"
	"github.com/jhoicas/Pdv-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	stockRepo := postgres.NewStockLevelRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	unitRepo := postgres.NewSerializedUnitRepository(pool)
	unitMovRepo := postgres.NewUnitMovementRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewLedger()
	registry := inventory.NewSerialRegistry()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewCatalogUseCase(productRepo, locationRepo, customerRepo)
	saleUC := sales.NewSaleUseCase(txRunner, ledger, registry, locationRepo, customerRepo, productRepo, saleRepo)
	transferUC := transfers.NewTransferUseCase(txRunner, ledger, registry, locationRepo, productRepo, transferRepo)
	receiptUC := inventory.NewReceiptUseCase(txRunner, ledger, registry, locationRepo, productRepo)
	queryUC := inventory.NewStockQueryUseCase(stockRepo, movementRepo, unitRepo, unitMovRepo)
	reconcileUC := inventory.NewReconcileUseCase(stockRepo, movementRepo)

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
		Title:    "PDV API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CatalogUC:   catalogUC,
		SaleUC:      saleUC,
		TransferUC:  transferUC,
		ReceiptUC:   receiptUC,
		QueryUC:     queryUC,
		ReconcileUC: reconcileUC,
		UserRepo:    userRepo,
		JWTSecret:   cfg.JWT.Secret,
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
