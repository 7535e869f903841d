package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock se maneja por variación
// y ubicación en StockLevel, nunca sobre el producto directamente.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	CategoryID  string
	// RequiresSerial indica que cada unidad vendida debe identificarse por serial/IMEI.
	RequiresSerial bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductVariation es la unidad vendible (talla, color, capacidad, etc.).
// Toda la aritmética del ledger se hace a nivel de variación.
type ProductVariation struct {
	ID        string
	ProductID string
	SKU       string
	Name      string
	Price     decimal.Decimal // precio de venta por defecto
	Cost      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
