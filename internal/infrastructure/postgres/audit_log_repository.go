package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de la bitácora de auditoría sobre PostgreSQL.
// Solo inserta y lista; no existe update ni delete sobre audit_logs.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create persiste una entrada de auditoría.
func (r *AuditLogRepo) Create(entry *entity.AuditLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_logs (id, user_id, username, action, description, entity_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.UserID, entry.Username, entry.Action,
		entry.Description, entry.EntityIDs, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit log entry: %w", err)
	}
	return nil
}

// List lista entradas en el rango dado (extremos opcionales), más reciente primero.
func (r *AuditLogRepo) List(from, to *time.Time, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `SELECT id, user_id, username, action, description, entity_ids, created_at FROM audit_logs WHERE 1=1`
	args := []interface{}{}
	argPos := 1
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, *from)
		argPos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at < $%d", argPos)
		args = append(args, *to)
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

// ListByUser lista entradas de un usuario, más reciente primero.
func (r *AuditLogRepo) ListByUser(userID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, user_id, username, action, description, entity_ids, created_at
		FROM audit_logs WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit log by user: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func scanAuditEntries(rows pgx.Rows) ([]*entity.AuditLogEntry, error) {
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Action,
			&e.Description, &e.EntityIDs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
