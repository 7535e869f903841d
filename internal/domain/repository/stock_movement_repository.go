package repository

import (
	"time"

	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del diario del ledger.
// Solo Create muta: el diario es append-only.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ExistsByReference verifica si ya hay un movimiento con esa referencia
	// (idempotencia: reaplicar la misma referencia no debe duplicar efectos).
	ExistsByReference(referenceType, referenceID string) (bool, error)
	ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByVariation(variationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListAll devuelve el diario completo, en orden de creación (reconciliación).
	ListAll() ([]*entity.StockMovement, error)
}
