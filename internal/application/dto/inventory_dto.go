package dto

import "github.com/shopspring/decimal"

// CreateReceiptRequest body para POST /api/inventory/receipts (recibo de compra).
type CreateReceiptRequest struct {
	LocationID string               `json:"location_id"`
	Notes      string               `json:"notes,omitempty"`
	Items      []ReceiptItemRequest `json:"items"`
}

// ReceiptItemRequest línea del recibo. Serials registra unidades serializadas
// individuales; si va vacío la línea es stock fungible por cantidad.
type ReceiptItemRequest struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Serials     []SerialRequest `json:"serials,omitempty"`
}

// SerialRequest unidad serializada entrante.
type SerialRequest struct {
	SerialNumber string `json:"serial_number"`
	IMEI         string `json:"imei,omitempty"`
	Condition    string `json:"condition,omitempty"` // default: new
}

// ReceiptResponse respuesta del recibo.
type ReceiptResponse struct {
	ReceiptID string `json:"receipt_id"`
	Message   string `json:"message"`
}

// StockLevelResponse fila de stock para GET /api/inventory/stock-levels.
type StockLevelResponse struct {
	VariationID       string          `json:"variation_id"`
	LocationID        string          `json:"location_id"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
}

// StockMovementResponse fila del diario para GET /api/inventory/movements.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	VariationID   string          `json:"variation_id"`
	LocationID    string          `json:"location_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	CreatedAt     string          `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// SerializedUnitResponse unidad para GET /api/inventory/units.
type SerializedUnitResponse struct {
	ID                string `json:"id"`
	VariationID       string `json:"variation_id"`
	SerialNumber      string `json:"serial_number"`
	IMEI              string `json:"imei,omitempty"`
	Status            string `json:"status"`
	Condition         string `json:"condition"`
	CurrentLocationID string `json:"current_location_id"`
	SaleID            string `json:"sale_id,omitempty"`
}

// UnitMovementResponse fila de bitácora para GET /api/inventory/units/:id/history.
type UnitMovementResponse struct {
	ID             string `json:"id"`
	MovementType   string `json:"movement_type"`
	FromLocationID string `json:"from_location_id,omitempty"`
	ToLocationID   string `json:"to_location_id,omitempty"`
	ReferenceType  string `json:"reference_type"`
	ReferenceID    string `json:"reference_id"`
	MovedAt        string `json:"moved_at"`
	MovedBy        string `json:"moved_by,omitempty"`
}

// ReconciliationDiscrepancy una diferencia entre el diario y el stock materializado.
type ReconciliationDiscrepancy struct {
	VariationID string          `json:"variation_id"`
	LocationID  string          `json:"location_id"`
	LedgerQty   decimal.Decimal `json:"ledger_qty"`   // StockLevel.QuantityAvailable
	JournalQty  decimal.Decimal `json:"journal_qty"`  // suma de movimientos
	Difference  decimal.Decimal `json:"difference"`
}

// ReconciliationResponse respuesta de GET /api/inventory/reconciliation.
// Consistent es true cuando Discrepancies está vacío.
type ReconciliationResponse struct {
	Consistent    bool                        `json:"consistent"`
	Discrepancies []ReconciliationDiscrepancy `json:"discrepancies"`
}
