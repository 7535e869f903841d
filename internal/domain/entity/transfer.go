package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un traslado (máquina de estados cerrada).
const (
	TransferStatusDraft        = "draft"
	TransferStatusPendingCheck = "pending_check"
	TransferStatusChecked      = "checked"
	TransferStatusInTransit    = "in_transit"
	TransferStatusArrived      = "arrived"
	TransferStatusVerifying    = "verifying"
	TransferStatusVerified     = "verified"
	TransferStatusCompleted    = "completed"
	TransferStatusCancelled    = "cancelled"
)

// Acciones del workflow de traslados.
const (
	TransferActionSubmitForCheck    = "submit_for_check"
	TransferActionCheckApprove      = "check_approve"
	TransferActionCheckReject       = "check_reject"
	TransferActionSend              = "send"
	TransferActionMarkArrived       = "mark_arrived"
	TransferActionStartVerification = "start_verification"
	TransferActionFinishVerification = "finish_verification" // interna: al verificar el último ítem
	TransferActionComplete          = "complete"
	TransferActionCancel            = "cancel"
)

// transferTransitions es la tabla explícita (estado actual × acción → estado
// siguiente). Toda acción fuera de la tabla se rechaza.
var transferTransitions = map[string]map[string]string{
	TransferStatusDraft: {
		TransferActionSubmitForCheck: TransferStatusPendingCheck,
		TransferActionCancel:         TransferStatusCancelled,
	},
	TransferStatusPendingCheck: {
		TransferActionCheckApprove: TransferStatusChecked,
		TransferActionCheckReject:  TransferStatusDraft,
		TransferActionCancel:       TransferStatusCancelled,
	},
	TransferStatusChecked: {
		TransferActionSend:   TransferStatusInTransit,
		TransferActionCancel: TransferStatusCancelled,
	},
	TransferStatusInTransit: {
		TransferActionMarkArrived: TransferStatusArrived,
		TransferActionCancel:      TransferStatusCancelled,
	},
	TransferStatusArrived: {
		TransferActionStartVerification: TransferStatusVerifying,
	},
	TransferStatusVerifying: {
		TransferActionFinishVerification: TransferStatusVerified,
	},
	TransferStatusVerified: {
		TransferActionComplete: TransferStatusCompleted,
	},
}

// NextTransferStatus devuelve el estado destino para (estado, acción) y si la
// transición es válida según la tabla.
func NextTransferStatus(current, action string) (string, bool) {
	next, ok := transferTransitions[current][action]
	return next, ok
}

// TransferCancellable indica si el estado admite cancelación (solo los cuatro
// estados previos a la llegada; desde in_transit el stock ya salió y debe
// acreditarse de vuelta en origen).
func TransferCancellable(status string) bool {
	_, ok := transferTransitions[status][TransferActionCancel]
	return ok
}

// Transfer es la cabecera de un traslado entre dos ubicaciones. Cada transición
// estampa el actor responsable y su fecha (cinco cupos de actor distintos) para
// formar la pista de auditoría del workflow. La separación de funciones exige
// CheckedBy ≠ CreatedBy.
type Transfer struct {
	ID             string
	TransferNumber string // patrón TRF-######-####
	FromLocationID string
	ToLocationID   string
	Status         string
	StockDeducted  bool // true desde send: el stock salió del origen
	Notes          string
	CheckRemarks   string // razón del rechazo en check_reject (obligatoria)

	CreatedBy   string
	CheckedBy   string
	SentBy      string
	ArrivedBy   string
	VerifiedBy  string
	CompletedBy string
	CancelledBy string

	CheckedAt   *time.Time
	SentAt      *time.Time
	ArrivedAt   *time.Time
	VerifiedAt  *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []*TransferItem
}

// AllItemsVerified indica si todos los ítems ya fueron verificados en destino.
func (t *Transfer) AllItemsVerified() bool {
	if len(t.Items) == 0 {
		return false
	}
	for _, it := range t.Items {
		if !it.Verified {
			return false
		}
	}
	return true
}

// TransferItem es una línea del traslado. ReceivedQuantity se registra en la
// verificación; la varianza (recibido - enviado) se expone sin ser fatal.
type TransferItem struct {
	ID               string
	TransferID       string
	ProductID        string
	VariationID      string
	QuantitySent     decimal.Decimal
	QuantityReceived decimal.Decimal
	Verified         bool
	VerifiedBy       string
	VerifiedAt       *time.Time
	// SerializedUnitIDs: unidades serializadas incluidas en la línea (opcional).
	SerializedUnitIDs []string
}

// Variance devuelve recibido - enviado (negativa = faltante, positiva = sobrante).
func (i *TransferItem) Variance() decimal.Decimal {
	return i.QuantityReceived.Sub(i.QuantitySent)
}
