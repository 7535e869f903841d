package dto

import "github.com/shopspring/decimal"

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	LocationID string `json:"location_id"`
	CustomerID string `json:"customer_id"`
	// ClientReference clave idempotente opcional asignada por el cliente
	// (p. ej. la terminal POS): reenviar la misma venta con la misma
	// referencia responde conflicto en lugar de duplicar efectos.
	ClientReference string            `json:"client_reference,omitempty"`
	Items           []SaleItemRequest `json:"items"`
	Payments        []PaymentRequest  `json:"payments"`
	TaxAmount       decimal.Decimal   `json:"tax_amount"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
	ShippingAmount  decimal.Decimal   `json:"shipping_amount"`
	Notes           string            `json:"notes,omitempty"`
}

// SaleItemRequest línea de venta. SerialNumberIDs es obligatorio (y del tamaño
// exacto de Quantity) cuando el producto exige serial.
type SaleItemRequest struct {
	ProductID       string          `json:"product_id"`
	VariationID     string          `json:"variation_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SerialNumberIDs []string        `json:"serial_number_ids,omitempty"`
}

// PaymentRequest pago declarado (método y monto).
type PaymentRequest struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse venta con ítems y pagos.
type SaleResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	LocationID     string             `json:"location_id"`
	CustomerID     string             `json:"customer_id"`
	Status         string             `json:"status"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	ShippingAmount decimal.Decimal    `json:"shipping_amount"`
	Total          decimal.Decimal    `json:"total"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      string             `json:"created_at"`
	Items          []SaleItemResponse `json:"items"`
	Payments       []PaymentResponse  `json:"payments"`
}

// SaleItemResponse línea en la respuesta.
type SaleItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	VariationID     string          `json:"variation_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SerialNumberIDs []string        `json:"serial_number_ids,omitempty"`
}

// PaymentResponse pago en la respuesta.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// VoidSaleResponse respuesta de DELETE /api/sales/:id.
type VoidSaleResponse struct {
	Message       string `json:"message"`
	InvoiceNumber string `json:"invoiceNumber"`
}
