package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pdv-api/internal/application/auth"
	"github.com/jhoicas/Pdv-api/internal/application/catalog"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/application/sales"
	"github.com/jhoicas/Pdv-api/internal/application/transfers"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CatalogUC   *catalog.CatalogUseCase
	SaleUC      *sales.SaleUseCase
	TransferUC  *transfers.TransferUseCase
	ReceiptUC   *inventory.ReceiptUseCase
	QueryUC     *inventory.StockQueryUseCase
	ReconcileUC *inventory.ReconcileUseCase
	UserRepo    repository.UserRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (escritura restringida a admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", RequireRole("admin"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/variations", RequireRole("admin"), productHandler.CreateVariation)

	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.CatalogUC)
	locations.Post("/", RequireRole("admin"), locationHandler.Create)
	locations.Get("/", locationHandler.List)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CatalogUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.UserRepo)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Void)

	// Traslados (workflow completo)
	transfersGroup := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.UserRepo)
	transfersGroup.Post("/", transferHandler.Create)
	transfersGroup.Get("/:id", transferHandler.GetByID)
	transfersGroup.Post("/:id/submit", transferHandler.SubmitForCheck)
	transfersGroup.Post("/:id/check-approve", transferHandler.Approve)
	transfersGroup.Post("/:id/check-reject", transferHandler.Reject)
	transfersGroup.Post("/:id/send", transferHandler.Send)
	transfersGroup.Post("/:id/arrive", transferHandler.MarkArrived)
	transfersGroup.Post("/:id/start-verification", transferHandler.StartVerification)
	transfersGroup.Post("/:id/verify-item", transferHandler.VerifyItem)
	transfersGroup.Post("/:id/complete", transferHandler.Complete)
	transfersGroup.Delete("/:id", transferHandler.Cancel)

	// Inventario: recibos, stock, diario y reconciliación
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ReceiptUC, deps.QueryUC, deps.ReconcileUC, deps.UserRepo)
	invGroup.Post("/receipts", inventoryHandler.CreateReceipt)
	invGroup.Get("/stock-levels", inventoryHandler.StockLevels)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Get("/units", inventoryHandler.Units)
	invGroup.Get("/units/:id/history", inventoryHandler.UnitHistory)
	invGroup.Get("/reconciliation", inventoryHandler.Reconciliation)
}
