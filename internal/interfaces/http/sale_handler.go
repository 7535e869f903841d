package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/sales"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc     *sales.SaleUseCase
	actors actorLoader
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, userRepo repository.UserRepository) *SaleHandler {
	return &SaleHandler{uc: uc, actors: actorLoader{userRepo: userRepo}}
}

// Create procesa una venta: valida stock, seriales y pagos y la confirma.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	sale, err := h.uc.CreateSale(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// Void anula una venta: restaura stock y seriales, la cabecera queda voided.
// DELETE /api/sales/:id
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id requerido"})
	}
	sale, err := h.uc.VoidSale(c.Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.VoidSaleResponse{
		Message:       fmt.Sprintf("Sale %s voided and stock restored", sale.InvoiceNumber),
		InvoiceNumber: sale.InvoiceNumber,
	})
}

// GetByID devuelve la venta con ítems y pagos.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id requerido"})
	}
	sale, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

func toSaleResponse(sale *entity.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:             sale.ID,
		InvoiceNumber:  sale.InvoiceNumber,
		LocationID:     sale.LocationID,
		CustomerID:     sale.CustomerID,
		Status:         sale.Status,
		Subtotal:       sale.Subtotal,
		TaxAmount:      sale.TaxAmount,
		DiscountAmount: sale.DiscountAmount,
		ShippingAmount: sale.ShippingAmount,
		Total:          sale.Total,
		Notes:          sale.Notes,
		CreatedAt:      sale.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range sale.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			VariationID:     item.VariationID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Subtotal:        item.Subtotal,
			SerialNumberIDs: item.SerializedUnitIDs,
		})
	}
	for _, p := range sale.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:     p.ID,
			Method: p.Method,
			Amount: p.Amount,
		})
	}
	return resp
}
