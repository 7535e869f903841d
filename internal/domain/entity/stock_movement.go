package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de referencia que originan movimientos del ledger.
const (
	ReferenceTypeSale            = "sale"
	ReferenceTypeSaleVoid        = "sale_void"
	ReferenceTypeTransferSend    = "transfer_send"
	ReferenceTypeTransferReceive = "transfer_receive"
	ReferenceTypeTransferCancel  = "transfer_cancel"
	ReferenceTypePurchaseReceipt = "purchase_receipt"
	ReferenceTypeAdjustment      = "adjustment"
)

// StockMovement es el diario append-only del ledger: un registro por cada
// mutación de StockLevel, con cantidad firmada (positiva entrada, negativa
// salida) y la transacción causante en ReferenceType/ReferenceID.
// Nunca se actualiza ni se borra; la suma de cantidades por (variación,
// ubicación) debe reconciliar con StockLevel.QuantityAvailable.
type StockMovement struct {
	ID            string
	VariationID   string
	LocationID    string
	Quantity      decimal.Decimal // firmada
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string // UserID
}

// IsInbound indica si el movimiento suma stock.
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}
