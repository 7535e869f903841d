package repository

import (
	"time"

	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia de traslados.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	CreateItem(item *entity.TransferItem) error
	GetByID(id string) (*entity.Transfer, error)
	// GetByIDForUpdate bloquea la cabecera: dos actores no pueden transicionar
	// el mismo traslado a la vez.
	GetByIDForUpdate(id string) (*entity.Transfer, error)
	Update(transfer *entity.Transfer) error
	UpdateItem(item *entity.TransferItem) error
	// NextSeqForDay reserva el siguiente consecutivo TRF del día (atómico).
	NextSeqForDay(day time.Time) (int, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Transfer, error)
	ListByLocation(locationID string, limit, offset int) ([]*entity.Transfer, error)
}
