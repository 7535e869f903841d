package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrSaleAlreadyVoided      = errors.New("sale is already voided")
	ErrTransferNotCancellable = errors.New("transfer can no longer be cancelled")
)

// InsufficientStockError se retorna cuando un débito excede la cantidad disponible.
// Available viaja en el error para que el operador corrija la cantidad.
type InsufficientStockError struct {
	VariationID string
	LocationID  string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for variation %s. Available: %s", e.VariationID, e.Available.String())
}

// SerialCountMismatchError: la cantidad de seriales no coincide con la cantidad del ítem.
type SerialCountMismatchError struct {
	VariationID string
	Expected    int
	Got         int
}

func (e *SerialCountMismatchError) Error() string {
	return fmt.Sprintf("Serial number count mismatch. Expected: %d, got: %d", e.Expected, e.Got)
}

// UnitNotAvailableError: la unidad serializada no está in_stock en la ubicación de la venta.
type UnitNotAvailableError struct {
	SerialNumber string
	Status       string
}

func (e *UnitNotAvailableError) Error() string {
	return fmt.Sprintf("Serial number %s is not available for sale (status: %s)", e.SerialNumber, e.Status)
}

// PaymentMismatchError: la suma de pagos difiere del total calculado (tolerancia 0.01).
type PaymentMismatchError struct {
	PaymentTotal decimal.Decimal
	SaleTotal    decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("Payment total %s does not match sale total %s", e.PaymentTotal.StringFixed(2), e.SaleTotal.StringFixed(2))
}

// InvalidTransitionError: acción de workflow desde un estado equivocado o por el actor equivocado.
type InvalidTransitionError struct {
	From   string
	Action string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition: %s from state %s: %s", e.Action, e.From, e.Reason)
	}
	return fmt.Sprintf("invalid transition: %s from state %s", e.Action, e.From)
}
