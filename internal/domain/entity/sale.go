package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Void es una transición de estado, nunca un borrado:
// el efecto se revierte (stock y seriales restaurados) pero el historial de
// auditoría del void es permanente.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// Métodos de pago declarados. El sistema solo registra método y monto y valida
// la suma; la liquidación con pasarelas es externa.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCredit   = "credit"
)

// PaymentTolerance: diferencia máxima aceptada entre suma de pagos y total.
var PaymentTolerance = decimal.NewFromFloat(0.01)

// Sale es la cabecera de una venta; posee sus ítems y pagos y se crea
// atómicamente con ellos.
type Sale struct {
	ID            string
	InvoiceNumber string // patrón INV-######-####
	LocationID    string
	CustomerID    string
	Status        string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingAmount decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	CreatedBy     string // UserID
	VoidedBy      string
	VoidedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items    []*SaleItem
	Payments []*Payment
}

// Total calcula subtotal + impuesto + envío - descuento.
func ComputeSaleTotal(subtotal, tax, shipping, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Add(shipping).Sub(discount)
}

// SaleItem es una línea de venta. Si la variación exige serial, SerializedUnitIDs
// debe tener exactamente Quantity elementos.
type SaleItem struct {
	ID                string
	SaleID            string
	ProductID         string
	VariationID       string
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	Subtotal          decimal.Decimal
	SerializedUnitIDs []string
}

// Payment es un pago declarado de la venta.
type Payment struct {
	ID     string
	SaleID string
	Method string
	Amount decimal.Decimal
}
