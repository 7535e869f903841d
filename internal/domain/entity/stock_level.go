package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel representa la cantidad disponible de una variación en una ubicación.
// Solo se muta a través de las operaciones del ledger (débito/crédito dentro de
// una transacción con bloqueo de fila); nunca se escribe directo desde handlers.
// Invariante: QuantityAvailable >= 0 en todo momento.
type StockLevel struct {
	VariationID       string
	LocationID        string
	QuantityAvailable decimal.Decimal
	UpdatedAt         time.Time
}
