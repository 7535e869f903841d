package repository

import (
	"time"

	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas.
// La venta se crea con sus ítems y pagos en la misma transacción; void es un
// update de estado, nunca un delete.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	CreatePayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la cabecera (serializa void contra void).
	GetByIDForUpdate(id string) (*entity.Sale, error)
	UpdateStatus(id, status, voidedBy string, voidedAt time.Time) error
	// NextSeqForDay reserva el siguiente consecutivo de factura del día de
	// forma atómica: dos ventas concurrentes nunca obtienen el mismo número.
	NextSeqForDay(day time.Time) (int, error)
	ListByLocation(locationID string, limit, offset int) ([]*entity.Sale, error)
}
