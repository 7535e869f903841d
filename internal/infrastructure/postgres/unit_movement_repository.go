package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

var _ repository.UnitMovementRepository = (*UnitMovementRepo)(nil)

// UnitMovementRepo implementación de la bitácora por unidad sobre PostgreSQL
// (usable con pool o tx). Append-only; la columna serialized_unit_id es NOT
// NULL con FK a serialized_units: una fila sin unidad real no puede existir.
type UnitMovementRepo struct {
	q Querier
}

// NewUnitMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitMovementRepository(q Querier) *UnitMovementRepo {
	return &UnitMovementRepo{q: q}
}

// Create persiste un movimiento de unidad.
func (r *UnitMovementRepo) Create(movement *entity.UnitMovement) error {
	if movement.SerializedUnitID == "" {
		return fmt.Errorf("unit movement without serialized unit reference")
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO unit_movements (id, serialized_unit_id, movement_type, from_location_id, to_location_id, reference_type, reference_id, moved_at, moved_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.SerializedUnitID, movement.MovementType,
		movement.FromLocationID, movement.ToLocationID,
		movement.ReferenceType, movement.ReferenceID, movement.MovedAt, movement.MovedBy,
	)
	if err != nil {
		return fmt.Errorf("create unit movement: %w", err)
	}
	return nil
}

// ListByUnit lista la bitácora de una unidad, más reciente primero.
func (r *UnitMovementRepo) ListByUnit(serializedUnitID string, limit, offset int) ([]*entity.UnitMovement, error) {
	query := `
		SELECT id, serialized_unit_id, movement_type, COALESCE(from_location_id, ''), COALESCE(to_location_id, ''), reference_type, reference_id, moved_at, moved_by
		FROM unit_movements WHERE serialized_unit_id = $1
		ORDER BY moved_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, serializedUnitID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by unit: %w", err)
	}
	defer rows.Close()
	return scanUnitMovements(rows)
}

// ListByReference lista los movimientos producidos por una transacción.
func (r *UnitMovementRepo) ListByReference(referenceType, referenceID string) ([]*entity.UnitMovement, error) {
	query := `
		SELECT id, serialized_unit_id, movement_type, COALESCE(from_location_id, ''), COALESCE(to_location_id, ''), reference_type, reference_id, moved_at, moved_by
		FROM unit_movements WHERE reference_type = $1 AND reference_id = $2
		ORDER BY moved_at`
	rows, err := r.q.Query(context.Background(), query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return scanUnitMovements(rows)
}

func scanUnitMovements(rows pgx.Rows) ([]*entity.UnitMovement, error) {
	var list []*entity.UnitMovement
	for rows.Next() {
		var m entity.UnitMovement
		if err := rows.Scan(&m.ID, &m.SerializedUnitID, &m.MovementType,
			&m.FromLocationID, &m.ToLocationID, &m.ReferenceType, &m.ReferenceID,
			&m.MovedAt, &m.MovedBy); err != nil {
			return nil, fmt.Errorf("scan unit movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
