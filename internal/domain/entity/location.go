package entity

import "time"

// Tipos de ubicación.
const (
	LocationTypeWarehouse = "warehouse" // bodega central, recibe compras
	LocationTypeBranch    = "branch"    // sucursal de venta
)

// Location representa una bodega o sucursal donde se almacena y vende inventario.
type Location struct {
	ID        string
	Code      string // código corto único (ej. "BOD-01", "SUC-NORTE")
	Name      string
	Type      string // warehouse, branch
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
