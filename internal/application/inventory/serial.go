package inventory

import (
	"time"

	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// SerialRegistry implementa el ciclo de vida de unidades serializadas:
// in_stock → sold → in_stock (void) y in_stock → in_transit → in_stock
// (traslados), con una fila de bitácora por transición. Toda operación ocurre
// dentro de la transacción del caller.
type SerialRegistry struct{}

// NewSerialRegistry construye el registro.
func NewSerialRegistry() *SerialRegistry {
	return &SerialRegistry{}
}

// AllocateInTx asigna unidades a una venta. Cada unidad debe estar in_stock en
// la ubicación de la venta; si no, falla con UnitNotAvailableError y la
// transacción completa aborta. Registra un movimiento tipo sale por unidad.
func (s *SerialRegistry) AllocateInTx(r TxRepos, unitIDs []string, saleID, locationID, customerID, userID string, now time.Time) error {
	for _, id := range unitIDs {
		unit, err := r.Units.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if unit == nil {
			return &domain.UnitNotAvailableError{SerialNumber: id, Status: "unknown"}
		}
		if !unit.Available(locationID) {
			return &domain.UnitNotAvailableError{SerialNumber: unit.SerialNumber, Status: unit.Status}
		}
		unit.Status = entity.UnitStatusSold
		unit.SaleID = saleID
		unit.SoldTo = customerID
		soldAt := now
		unit.SoldAt = &soldAt
		unit.UpdatedAt = now
		if err := r.Units.Update(unit); err != nil {
			return err
		}
		if err := appendUnitMovement(r, &entity.UnitMovement{
			SerializedUnitID: unit.ID,
			MovementType:     entity.UnitMovementSale,
			FromLocationID:   locationID,
			ReferenceType:    entity.ReferenceTypeSale,
			ReferenceID:      saleID,
			MovedAt:          now,
			MovedBy:          userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseInTx revierte la asignación de las unidades de una venta anulada:
// regresa status a in_stock, limpia saleID/soldTo/soldAt, restaura la ubicación
// de la venta y registra un movimiento sale_void por unidad (distinto del
// customer_return iniciado por el cliente).
func (s *SerialRegistry) ReleaseInTx(r TxRepos, saleID, locationID, userID string, now time.Time) error {
	units, err := r.Units.ListBySale(saleID)
	if err != nil {
		return err
	}
	for _, unit := range units {
		unit.Status = entity.UnitStatusInStock
		unit.SaleID = ""
		unit.SoldTo = ""
		unit.SoldAt = nil
		unit.CurrentLocationID = locationID
		unit.UpdatedAt = now
		if err := r.Units.Update(unit); err != nil {
			return err
		}
		if err := appendUnitMovement(r, &entity.UnitMovement{
			SerializedUnitID: unit.ID,
			MovementType:     entity.UnitMovementSaleVoid,
			ToLocationID:     locationID,
			ReferenceType:    entity.ReferenceTypeSaleVoid,
			ReferenceID:      saleID,
			MovedAt:          now,
			MovedBy:          userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// MarkInTransitInTx pasa unidades in_stock del origen a in_transit (envío de
// traslado). Cada unidad debe estar disponible en la ubicación origen.
func (s *SerialRegistry) MarkInTransitInTx(r TxRepos, unitIDs []string, transferID, fromLocationID, userID string, now time.Time) error {
	for _, id := range unitIDs {
		unit, err := r.Units.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if unit == nil {
			return &domain.UnitNotAvailableError{SerialNumber: id, Status: "unknown"}
		}
		if !unit.Available(fromLocationID) {
			return &domain.UnitNotAvailableError{SerialNumber: unit.SerialNumber, Status: unit.Status}
		}
		unit.Status = entity.UnitStatusInTransit
		unit.UpdatedAt = now
		if err := r.Units.Update(unit); err != nil {
			return err
		}
		if err := appendUnitMovement(r, &entity.UnitMovement{
			SerializedUnitID: unit.ID,
			MovementType:     entity.UnitMovementTransferOut,
			FromLocationID:   fromLocationID,
			ReferenceType:    entity.ReferenceTypeTransferSend,
			ReferenceID:      transferID,
			MovedAt:          now,
			MovedBy:          userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveTransferInTx cierra el tránsito: unidades in_transit quedan in_stock
// en la ubicación destino (o de vuelta en origen si el traslado se cancela).
func (s *SerialRegistry) ReceiveTransferInTx(r TxRepos, unitIDs []string, transferID, toLocationID, referenceType, userID string, now time.Time) error {
	for _, id := range unitIDs {
		unit, err := r.Units.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if unit == nil {
			return &domain.UnitNotAvailableError{SerialNumber: id, Status: "unknown"}
		}
		if unit.Status != entity.UnitStatusInTransit {
			return &domain.UnitNotAvailableError{SerialNumber: unit.SerialNumber, Status: unit.Status}
		}
		unit.Status = entity.UnitStatusInStock
		unit.CurrentLocationID = toLocationID
		unit.UpdatedAt = now
		if err := r.Units.Update(unit); err != nil {
			return err
		}
		if err := appendUnitMovement(r, &entity.UnitMovement{
			SerializedUnitID: unit.ID,
			MovementType:     entity.UnitMovementTransferIn,
			ToLocationID:     toLocationID,
			ReferenceType:    referenceType,
			ReferenceID:      transferID,
			MovedAt:          now,
			MovedBy:          userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterInTx crea una unidad nueva en recibo de mercancía (in_stock) con su
// movimiento receipt.
func (s *SerialRegistry) RegisterInTx(r TxRepos, unit *entity.SerializedUnit, receiptID, userID string, now time.Time) error {
	if unit.Condition == "" {
		unit.Condition = entity.UnitConditionNew
	}
	unit.Status = entity.UnitStatusInStock
	unit.CreatedAt = now
	unit.UpdatedAt = now
	if err := r.Units.Create(unit); err != nil {
		return err
	}
	return appendUnitMovement(r, &entity.UnitMovement{
		SerializedUnitID: unit.ID,
		MovementType:     entity.UnitMovementReceipt,
		ToLocationID:     unit.CurrentLocationID,
		ReferenceType:    entity.ReferenceTypePurchaseReceipt,
		ReferenceID:      receiptID,
		MovedAt:          now,
		MovedBy:          userID,
	})
}
