package inventory

import (
	"context"

	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// El motor toca varias tablas por operación (ledger, diario, unidades,
// cabeceras, auditoría) y todas deben confirmar o abortar juntas.
type TxRepos struct {
	Stock     repository.StockLevelRepository
	Movements repository.StockMovementRepository
	Units     repository.SerializedUnitRepository
	UnitMovs  repository.UnitMovementRepository
	Sales     repository.SaleRepository
	Transfers repository.TransferRepository
	Audit     repository.AuditLogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: cualquier error de fn
// aborta la transacción completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
