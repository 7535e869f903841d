package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/transfers"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// TransferHandler maneja las peticiones HTTP del workflow de traslados (protegido).
type TransferHandler struct {
	uc     *transfers.TransferUseCase
	actors actorLoader
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfers.TransferUseCase, userRepo repository.UserRepository) *TransferHandler {
	return &TransferHandler{uc: uc, actors: actorLoader{userRepo: userRepo}}
}

// Create registra un traslado en draft.
// POST /api/transfers
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	transfer, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
}

// GetByID devuelve el traslado con sus ítems.
// GET /api/transfers/:id
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id requerido"})
	}
	transfer, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// action factoriza los sub-endpoints del workflow que no llevan body.
func (h *TransferHandler) action(c *fiber.Ctx, run func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error)) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id requerido"})
	}
	transfer, err := run(c, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// SubmitForCheck pasa draft → pending_check.
// POST /api/transfers/:id/submit
func (h *TransferHandler) SubmitForCheck(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.SubmitForCheck(c.Context(), actor, id)
	})
}

// Approve pasa pending_check → checked (revisor ≠ creador).
// POST /api/transfers/:id/check-approve
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.Approve(c.Context(), actor, id)
	})
}

// Reject regresa pending_check → draft con la razón registrada.
// POST /api/transfers/:id/check-reject
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id requerido"})
	}
	var in dto.RejectTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	transfer, err := h.uc.Reject(c.Context(), actor, id, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Send pasa checked → in_transit y descuenta el stock del origen.
// POST /api/transfers/:id/send
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.Send(c.Context(), actor, id)
	})
}

// MarkArrived pasa in_transit → arrived.
// POST /api/transfers/:id/arrive
func (h *TransferHandler) MarkArrived(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.MarkArrived(c.Context(), actor, id)
	})
}

// StartVerification pasa arrived → verifying.
// POST /api/transfers/:id/start-verification
func (h *TransferHandler) StartVerification(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.StartVerification(c.Context(), actor, id)
	})
}

// VerifyItem registra la cantidad recibida de un ítem; al verificar el último
// el traslado pasa a verified.
// POST /api/transfers/:id/verify-item
func (h *TransferHandler) VerifyItem(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id requerido"})
	}
	var in dto.VerifyItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	transfer, err := h.uc.VerifyItem(c.Context(), actor, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Complete pasa verified → completed y acredita el destino con lo recibido.
// POST /api/transfers/:id/complete
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.Complete(c.Context(), actor, id)
	})
}

// Cancel anula el traslado (solo estados previos a la llegada).
// DELETE /api/transfers/:id
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	return h.action(c, func(c *fiber.Ctx, actor *entity.User, id string) (*entity.Transfer, error) {
		return h.uc.Cancel(c.Context(), actor, id)
	})
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	resp := dto.TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Status:         t.Status,
		StockDeducted:  t.StockDeducted,
		Notes:          t.Notes,
		CheckRemarks:   t.CheckRemarks,
		CreatedBy:      t.CreatedBy,
		CheckedBy:      t.CheckedBy,
		SentBy:         t.SentBy,
		ArrivedBy:      t.ArrivedBy,
		VerifiedBy:     t.VerifiedBy,
		CompletedBy:    t.CompletedBy,
		CancelledBy:    t.CancelledBy,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range t.Items {
		resp.Items = append(resp.Items, dto.TransferItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			VariationID:      item.VariationID,
			QuantitySent:     item.QuantitySent,
			QuantityReceived: item.QuantityReceived,
			Variance:         item.Variance(),
			Verified:         item.Verified,
			SerialNumberIDs:  item.SerializedUnitIDs,
		})
	}
	return resp
}
