package entity

import "time"

// Customer representa un cliente de las sucursales.
type Customer struct {
	ID        string
	Document  string // cédula / NIT
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
