package repository

import "github.com/jhoicas/Pdv-api/internal/domain/entity"

// StockLevelRepository define el puerto para consultar/actualizar stock por
// variación+ubicación. Las mutaciones solo ocurren dentro de transacciones.
type StockLevelRepository interface {
	Get(variationID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); la fila
	// inexistente se devuelve con cantidad cero.
	GetForUpdate(variationID, locationID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error)
	ListAll() ([]*entity.StockLevel, error)
}
