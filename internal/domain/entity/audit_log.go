package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditActionSaleCreate       = "sale_create"
	AuditActionSaleDelete       = "sale_delete" // anulación (void); la venta nunca se borra
	AuditActionReceiptCreate    = "receipt_create"
	AuditActionTransferSend     = "transfer_send"
	AuditActionTransferComplete = "transfer_complete"
	AuditActionTransferCancel   = "transfer_cancel"
)

// AuditLogEntry es el registro inmutable de cada operación que afecta el ledger
// o transiciona el workflow: quién, cuándo, qué cambió y por qué. Se escribe una
// sola vez dentro de la misma transacción que la mutación; nunca se actualiza.
type AuditLogEntry struct {
	ID          string
	UserID      string
	Username    string
	Action      string
	Description string
	EntityIDs   []string // ids de las entidades afectadas
	CreatedAt   time.Time
}
