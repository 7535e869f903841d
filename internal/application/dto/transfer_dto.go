package dto

import "github.com/shopspring/decimal"

// CreateTransferRequest body para POST /api/transfers (queda en draft).
type CreateTransferRequest struct {
	FromLocationID string                `json:"from_location_id"`
	ToLocationID   string                `json:"to_location_id"`
	Notes          string                `json:"notes,omitempty"`
	Items          []TransferItemRequest `json:"items"`
}

// TransferItemRequest línea del traslado.
type TransferItemRequest struct {
	ProductID       string          `json:"product_id"`
	VariationID     string          `json:"variation_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	SerialNumberIDs []string        `json:"serial_number_ids,omitempty"`
}

// RejectTransferRequest body para POST /api/transfers/:id/check-reject.
// Reason es obligatoria.
type RejectTransferRequest struct {
	Reason string `json:"reason"`
}

// VerifyItemRequest body para POST /api/transfers/:id/verify-item.
type VerifyItemRequest struct {
	ItemID           string          `json:"item_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// TransferResponse traslado con ítems y pista de auditoría del workflow.
type TransferResponse struct {
	ID             string                 `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	Status         string                 `json:"status"`
	StockDeducted  bool                   `json:"stock_deducted"`
	Notes          string                 `json:"notes,omitempty"`
	CheckRemarks   string                 `json:"check_remarks,omitempty"`
	CreatedBy      string                 `json:"created_by"`
	CheckedBy      string                 `json:"checked_by,omitempty"`
	SentBy         string                 `json:"sent_by,omitempty"`
	ArrivedBy      string                 `json:"arrived_by,omitempty"`
	VerifiedBy     string                 `json:"verified_by,omitempty"`
	CompletedBy    string                 `json:"completed_by,omitempty"`
	CancelledBy    string                 `json:"cancelled_by,omitempty"`
	CreatedAt      string                 `json:"created_at"`
	Items          []TransferItemResponse `json:"items"`
}

// TransferItemResponse línea con varianza (recibido - enviado).
type TransferItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	VariationID      string          `json:"variation_id"`
	QuantitySent     decimal.Decimal `json:"quantity_sent"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	Variance         decimal.Decimal `json:"variance"`
	Verified         bool            `json:"verified"`
	SerialNumberIDs  []string        `json:"serial_number_ids,omitempty"`
}
