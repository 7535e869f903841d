package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// Ledger implementa la aritmética de stock por (variación, ubicación):
// débito con rechazo por stock insuficiente y crédito, siempre con bloqueo de
// fila (SELECT FOR UPDATE) y un registro en el diario por cada mutación.
// Se usa exclusivamente dentro de una transacción abierta por TxRunner.
type Ledger struct{}

// NewLedger construye el ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AlreadyApplied verifica si la referencia ya tiene movimientos en el diario.
// Los callers lo consultan una sola vez antes de mutar: reaplicar la misma
// (referenceType, referenceID) no debe duplicar efectos.
func (l *Ledger) AlreadyApplied(r TxRepos, referenceType, referenceID string) (bool, error) {
	return r.Movements.ExistsByReference(referenceType, referenceID)
}

// DebitInTx bloquea la fila de stock, verifica disponibilidad y resta qty.
// Falla con InsufficientStockError (incluyendo la cantidad disponible) cuando
// qty excede lo disponible; el check y el débito son un solo paso atómico
// gracias al bloqueo de fila.
func (l *Ledger) DebitInTx(r TxRepos, variationID, locationID string, qty decimal.Decimal, referenceType, referenceID, userID string, now time.Time) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	stock, err := r.Stock.GetForUpdate(variationID, locationID)
	if err != nil {
		return err
	}
	if stock.QuantityAvailable.LessThan(qty) {
		return &domain.InsufficientStockError{
			VariationID: variationID,
			LocationID:  locationID,
			Requested:   qty,
			Available:   stock.QuantityAvailable,
		}
	}
	stock.QuantityAvailable = stock.QuantityAvailable.Sub(qty)
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(stock); err != nil {
		return err
	}
	return r.Movements.Create(&entity.StockMovement{
		VariationID:   variationID,
		LocationID:    locationID,
		Quantity:      qty.Neg(),
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		CreatedAt:     now,
		CreatedBy:     userID,
	})
}

// CreditInTx bloquea la fila de stock y suma qty, con su registro en el diario.
func (l *Ledger) CreditInTx(r TxRepos, variationID, locationID string, qty decimal.Decimal, referenceType, referenceID, userID string, now time.Time) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	stock, err := r.Stock.GetForUpdate(variationID, locationID)
	if err != nil {
		return err
	}
	stock.QuantityAvailable = stock.QuantityAvailable.Add(qty)
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(stock); err != nil {
		return err
	}
	return r.Movements.Create(&entity.StockMovement{
		VariationID:   variationID,
		LocationID:    locationID,
		Quantity:      qty,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		CreatedAt:     now,
		CreatedBy:     userID,
	})
}

// CheckAvailableInTx bloquea la fila y verifica disponibilidad sin mutar.
// Para la fase de validación de ventas: el bloqueo se mantiene hasta el commit,
// así no hay lectura rota entre el check y el débito posterior.
func (l *Ledger) CheckAvailableInTx(r TxRepos, variationID, locationID string, qty decimal.Decimal) error {
	stock, err := r.Stock.GetForUpdate(variationID, locationID)
	if err != nil {
		return err
	}
	if stock.QuantityAvailable.LessThan(qty) {
		return &domain.InsufficientStockError{
			VariationID: variationID,
			LocationID:  locationID,
			Requested:   qty,
			Available:   stock.QuantityAvailable,
		}
	}
	return nil
}

// appendUnitMovement inserta una fila en la bitácora de unidades. Rechaza toda
// fila sin referencia a una unidad real: producir un movimiento huérfano es un
// bug de correctitud, no un dato válido.
func appendUnitMovement(r TxRepos, m *entity.UnitMovement) error {
	if m.SerializedUnitID == "" {
		return fmt.Errorf("unit movement without serialized unit reference")
	}
	return r.UnitMovs.Create(m)
}
