package entity

import "time"

// Estados del ciclo de vida de una unidad serializada.
const (
	UnitStatusInStock   = "in_stock"
	UnitStatusSold      = "sold"
	UnitStatusInTransit = "in_transit"
	UnitStatusReturned  = "returned" // devolución física del cliente
	UnitStatusDamaged   = "damaged"
)

// Condiciones de una unidad.
const (
	UnitConditionNew         = "new"
	UnitConditionUsed        = "used"
	UnitConditionRefurbished = "refurbished"
)

// SerializedUnit es una unidad individual rastreada por serial (y opcionalmente
// IMEI). Se crea en el recibo de mercancía y nunca se borra: las anulaciones de
// venta la regresan a in_stock y limpian los campos ligados a la venta.
// Las transiciones de Status son la única vía de mutación.
type SerializedUnit struct {
	ID                string
	VariationID       string
	SerialNumber      string // único
	IMEI              string // identificador secundario opcional
	Status            string
	Condition         string
	CurrentLocationID string
	SaleID            string // vacío si no está vendida
	SoldTo            string // CustomerID
	SoldAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available indica si la unidad puede venderse en la ubicación dada.
func (u *SerializedUnit) Available(locationID string) bool {
	return u.Status == UnitStatusInStock && u.CurrentLocationID == locationID
}
