package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre stock y diario de movimientos.
type StockQueryUseCase struct {
	stockRepo    repository.StockLevelRepository
	movementRepo repository.StockMovementRepository
	unitRepo     repository.SerializedUnitRepository
	unitMovRepo  repository.UnitMovementRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	stockRepo repository.StockLevelRepository,
	movementRepo repository.StockMovementRepository,
	unitRepo repository.SerializedUnitRepository,
	unitMovRepo repository.UnitMovementRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		unitRepo:     unitRepo,
		unitMovRepo:  unitMovRepo,
	}
}

// StockLevels lista el stock de una ubicación.
func (uc *StockQueryUseCase) StockLevels(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	return uc.stockRepo.ListByLocation(locationID, limit, offset)
}

// Movements lista el diario de una ubicación o de una variación (una de las dos).
func (uc *StockQueryUseCase) Movements(ctx context.Context, locationID, variationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if variationID != "" {
		return uc.movementRepo.ListByVariation(variationID, from, to, limit, offset)
	}
	return uc.movementRepo.ListByLocation(locationID, from, to, limit, offset)
}

// Units lista unidades serializadas de una ubicación, opcionalmente por estado.
func (uc *StockQueryUseCase) Units(ctx context.Context, locationID, status string, limit, offset int) ([]*entity.SerializedUnit, error) {
	return uc.unitRepo.ListByLocation(locationID, status, limit, offset)
}

// UnitHistory devuelve la bitácora de una unidad serializada.
func (uc *StockQueryUseCase) UnitHistory(ctx context.Context, serializedUnitID string, limit, offset int) ([]*entity.UnitMovement, error) {
	return uc.unitMovRepo.ListByUnit(serializedUnitID, limit, offset)
}
