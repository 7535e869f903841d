package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de inventario: recibos de
// mercancía, stock, diario de movimientos y reconciliación (protegido).
type InventoryHandler struct {
	receiptUC   *inventory.ReceiptUseCase
	queryUC     *inventory.StockQueryUseCase
	reconcileUC *inventory.ReconcileUseCase
	actors      actorLoader
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	receiptUC *inventory.ReceiptUseCase,
	queryUC *inventory.StockQueryUseCase,
	reconcileUC *inventory.ReconcileUseCase,
	userRepo repository.UserRepository,
) *InventoryHandler {
	return &InventoryHandler{
		receiptUC:   receiptUC,
		queryUC:     queryUC,
		reconcileUC: reconcileUC,
		actors:      actorLoader{userRepo: userRepo},
	}
}

// CreateReceipt registra un recibo de mercancía (acredita stock, crea unidades).
// POST /api/inventory/receipts
func (h *InventoryHandler) CreateReceipt(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	receiptID, err := h.receiptUC.CreateReceipt(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiptResponse{
		ReceiptID: receiptID,
		Message:   "Goods receipt registered",
	})
}

// StockLevels lista el stock de una ubicación.
// GET /api/inventory/stock-levels?location_id=...
func (h *InventoryHandler) StockLevels(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "paginación inválida"})
	}
	page.DefaultPage()
	levels, err := h.queryUC.StockLevels(c.Context(), locationID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.StockLevelResponse, 0, len(levels))
	for _, lvl := range levels {
		resp = append(resp, dto.StockLevelResponse{
			VariationID:       lvl.VariationID,
			LocationID:        lvl.LocationID,
			QuantityAvailable: lvl.QuantityAvailable,
		})
	}
	return c.JSON(resp)
}

// Movements lista el diario (por ubicación o por variación).
// GET /api/inventory/movements?location_id=...&variation_id=...
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	variationID := c.Query("variation_id")
	if locationID == "" && variationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id o variation_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "paginación inválida"})
	}
	page.DefaultPage()
	movements, err := h.queryUC.Movements(c.Context(), locationID, variationID, nil, nil, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.StockMovementResponse{
			ID:            m.ID,
			VariationID:   m.VariationID,
			LocationID:    m.LocationID,
			Quantity:      m.Quantity,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
			CreatedBy:     m.CreatedBy,
		})
	}
	return c.JSON(resp)
}

// Units lista las unidades serializadas de una ubicación, opcionalmente por estado.
// GET /api/inventory/units?location_id=...&status=...
func (h *InventoryHandler) Units(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "paginación inválida"})
	}
	page.DefaultPage()
	units, err := h.queryUC.Units(c.Context(), locationID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.SerializedUnitResponse, 0, len(units))
	for _, u := range units {
		resp = append(resp, dto.SerializedUnitResponse{
			ID:                u.ID,
			VariationID:       u.VariationID,
			SerialNumber:      u.SerialNumber,
			IMEI:              u.IMEI,
			Status:            u.Status,
			Condition:         u.Condition,
			CurrentLocationID: u.CurrentLocationID,
			SaleID:            u.SaleID,
		})
	}
	return c.JSON(resp)
}

// UnitHistory devuelve la bitácora de una unidad serializada.
// GET /api/inventory/units/:id/history
func (h *InventoryHandler) UnitHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "paginación inválida"})
	}
	page.DefaultPage()
	movements, err := h.queryUC.UnitHistory(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.UnitMovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.UnitMovementResponse{
			ID:             m.ID,
			MovementType:   m.MovementType,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			ReferenceType:  m.ReferenceType,
			ReferenceID:    m.ReferenceID,
			MovedAt:        m.MovedAt.Format(time.RFC3339),
			MovedBy:        m.MovedBy,
		})
	}
	return c.JSON(resp)
}

// Reconciliation compara el diario contra el stock materializado.
// GET /api/inventory/reconciliation
func (h *InventoryHandler) Reconciliation(c *fiber.Ctx) error {
	resp, err := h.reconcileUC.Reconcile(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
