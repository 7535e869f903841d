package repository

import "github.com/jhoicas/Pdv-api/internal/domain/entity"

// UnitMovementRepository define el puerto de la bitácora por unidad serializada.
// Append-only: solo Create y lecturas.
type UnitMovementRepository interface {
	Create(movement *entity.UnitMovement) error
	ListByUnit(serializedUnitID string, limit, offset int) ([]*entity.UnitMovement, error)
	ListByReference(referenceType, referenceID string) ([]*entity.UnitMovement, error)
}
