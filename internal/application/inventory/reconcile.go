package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// ReconcileUseCase reconstruye los deltas netos del diario de movimientos y los
// compara contra el stock materializado. En un sistema sano el resultado es
// vacío: el diario y el ledger nunca deben divergir.
type ReconcileUseCase struct {
	stockRepo    repository.StockLevelRepository
	movementRepo repository.StockMovementRepository
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(stockRepo repository.StockLevelRepository, movementRepo repository.StockMovementRepository) *ReconcileUseCase {
	return &ReconcileUseCase{stockRepo: stockRepo, movementRepo: movementRepo}
}

type stockKey struct {
	variationID string
	locationID  string
}

// Reconcile suma el diario por (variación, ubicación) y reporta cada diferencia
// contra StockLevel.QuantityAvailable.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context) (*dto.ReconciliationResponse, error) {
	movements, err := uc.movementRepo.ListAll()
	if err != nil {
		return nil, err
	}
	levels, err := uc.stockRepo.ListAll()
	if err != nil {
		return nil, err
	}

	journal := make(map[stockKey]decimal.Decimal)
	for _, m := range movements {
		k := stockKey{m.VariationID, m.LocationID}
		journal[k] = journal[k].Add(m.Quantity)
	}

	resp := &dto.ReconciliationResponse{Consistent: true, Discrepancies: []dto.ReconciliationDiscrepancy{}}
	seen := make(map[stockKey]bool)
	for _, lvl := range levels {
		k := stockKey{lvl.VariationID, lvl.LocationID}
		seen[k] = true
		if !lvl.QuantityAvailable.Equal(journal[k]) {
			resp.Consistent = false
			resp.Discrepancies = append(resp.Discrepancies, dto.ReconciliationDiscrepancy{
				VariationID: lvl.VariationID,
				LocationID:  lvl.LocationID,
				LedgerQty:   lvl.QuantityAvailable,
				JournalQty:  journal[k],
				Difference:  lvl.QuantityAvailable.Sub(journal[k]),
			})
		}
	}
	// Movimientos sin fila de stock: delta distinto de cero sin materializar.
	for k, qty := range journal {
		if !seen[k] && !qty.IsZero() {
			resp.Consistent = false
			resp.Discrepancies = append(resp.Discrepancies, dto.ReconciliationDiscrepancy{
				VariationID: k.variationID,
				LocationID:  k.locationID,
				LedgerQty:   decimal.Zero,
				JournalQty:  qty,
				Difference:  qty.Neg(),
			})
		}
	}
	return resp, nil
}
