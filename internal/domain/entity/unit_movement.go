package entity

import "time"

// Tipos de movimiento de unidades serializadas.
const (
	UnitMovementReceipt        = "receipt"
	UnitMovementSale           = "sale"
	UnitMovementSaleVoid       = "sale_void"       // anulación de venta; distinto de la devolución del cliente
	UnitMovementCustomerReturn = "customer_return" // devolución física iniciada por el cliente
	UnitMovementTransferOut    = "transfer_out"
	UnitMovementTransferIn     = "transfer_in"
)

// UnitMovement es la bitácora append-only por unidad serializada: una fila por
// transición de estado con la transacción causante. SerializedUnitID debe
// referenciar siempre una unidad real; una fila sin unidad es un bug de
// correctitud y nunca debe producirse. Nunca se actualiza ni se borra.
type UnitMovement struct {
	ID               string
	SerializedUnitID string
	MovementType     string
	FromLocationID   string
	ToLocationID     string
	ReferenceType    string // sale, transfer, receipt...
	ReferenceID      string
	MovedAt          time.Time
	MovedBy          string // UserID
}
