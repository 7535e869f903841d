package repository

import (
	"time"

	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// AuditLogRepository define el puerto de la bitácora de auditoría (append-only).
type AuditLogRepository interface {
	Create(entry *entity.AuditLogEntry) error
	List(from, to *time.Time, limit, offset int) ([]*entity.AuditLogEntry, error)
	ListByUser(userID string, limit, offset int) ([]*entity.AuditLogEntry, error)
}
