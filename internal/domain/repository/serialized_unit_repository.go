package repository

import "github.com/jhoicas/Pdv-api/internal/domain/entity"

// SerializedUnitRepository define el puerto para unidades serializadas.
// Las unidades nunca se borran; Update solo transiciona estado y campos de venta.
type SerializedUnitRepository interface {
	Create(unit *entity.SerializedUnit) error
	GetByID(id string) (*entity.SerializedUnit, error)
	// GetByIDForUpdate bloquea la fila de la unidad (SELECT FOR UPDATE).
	GetByIDForUpdate(id string) (*entity.SerializedUnit, error)
	GetBySerialNumber(serial string) (*entity.SerializedUnit, error)
	Update(unit *entity.SerializedUnit) error
	ListByLocation(locationID, status string, limit, offset int) ([]*entity.SerializedUnit, error)
	ListBySale(saleID string) ([]*entity.SerializedUnit, error)
}
