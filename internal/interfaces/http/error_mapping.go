package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Los errores de
// validación de negocio (stock insuficiente, conteo de seriales, pagos) se
// devuelven con su mensaje textual, que incluye el diagnóstico para el operador.
func respondError(c *fiber.Ctx, err error) error {
	var insufficientStock *domain.InsufficientStockError
	var serialMismatch *domain.SerialCountMismatchError
	var unitNotAvailable *domain.UnitNotAvailableError
	var paymentMismatch *domain.PaymentMismatchError
	var invalidTransition *domain.InvalidTransitionError

	switch {
	case errors.As(err, &insufficientStock),
		errors.As(err, &serialMismatch),
		errors.As(err, &unitNotAvailable),
		errors.As(err, &paymentMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &invalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSaleAlreadyVoided),
		errors.Is(err, domain.ErrTransferNotCancellable),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
}
