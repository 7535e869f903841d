package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero" // opera bodegas: recibos y traslados
	RoleVendedor  = "vendedor"  // opera caja: ventas y anulaciones
)

// Permisos sobre el flujo de traslados y ventas. Se derivan del rol;
// la separación de funciones (creador ≠ revisor) se valida aparte por actor.
const (
	PermSaleCreate       = "sale.create"
	PermSaleVoid         = "sale.void"
	PermTransferCreate   = "transfer.create"
	PermTransferCheck    = "transfer.check"
	PermTransferSend     = "transfer.send"
	PermTransferReceive  = "transfer.receive"
	PermTransferVerify   = "transfer.verify"
	PermTransferComplete = "transfer.complete"
	PermReceiptCreate    = "receipt.create"
)

var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermSaleCreate, PermSaleVoid,
		PermTransferCreate, PermTransferCheck, PermTransferSend,
		PermTransferReceive, PermTransferVerify, PermTransferComplete,
		PermReceiptCreate,
	},
	RoleBodeguero: {
		PermTransferCreate, PermTransferCheck, PermTransferSend,
		PermTransferReceive, PermTransferVerify, PermTransferComplete,
		PermReceiptCreate,
	},
	RoleVendedor: {
		PermSaleCreate, PermSaleVoid, PermTransferCreate,
	},
}

// RoleHasPermission indica si el rol incluye el permiso.
func RoleHasPermission(role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, vendedor
	// LocationIDs limita el alcance del usuario. Vacío = acceso a todas las ubicaciones.
	LocationIDs []string
	Status      string // active, inactive, suspended
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasLocationAccess indica si el usuario puede operar sobre la ubicación.
func (u *User) HasLocationAccess(locationID string) bool {
	if len(u.LocationIDs) == 0 {
		return true
	}
	for _, id := range u.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}
