package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

var _ repository.SerializedUnitRepository = (*SerializedUnitRepo)(nil)

const serializedUnitColumns = `id, variation_id, serial_number, imei, status, condition, current_location_id, sale_id, sold_to, sold_at, created_at, updated_at`

// SerializedUnitRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las unidades nunca se borran (DELETE no existe en este adaptador).
type SerializedUnitRepo struct {
	q Querier
}

// NewSerializedUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerializedUnitRepository(q Querier) *SerializedUnitRepo {
	return &SerializedUnitRepo{q: q}
}

// Create registra una unidad nueva. Serial duplicado → ErrDuplicate.
func (r *SerializedUnitRepo) Create(unit *entity.SerializedUnit) error {
	query := `
		INSERT INTO serialized_units (id, variation_id, serial_number, imei, status, condition, current_location_id, sale_id, sold_to, sold_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.VariationID, unit.SerialNumber, unit.IMEI, unit.Status, unit.Condition,
		unit.CurrentLocationID, unit.SaleID, unit.SoldTo, unit.SoldAt, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create serialized unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por id.
func (r *SerializedUnitRepo) GetByID(id string) (*entity.SerializedUnit, error) {
	query := `SELECT ` + serializedUnitColumns + ` FROM serialized_units WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene la unidad y bloquea la fila (SELECT FOR UPDATE).
func (r *SerializedUnitRepo) GetByIDForUpdate(id string) (*entity.SerializedUnit, error) {
	query := `SELECT ` + serializedUnitColumns + ` FROM serialized_units WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySerialNumber obtiene una unidad por su serial.
func (r *SerializedUnitRepo) GetBySerialNumber(serial string) (*entity.SerializedUnit, error) {
	query := `SELECT ` + serializedUnitColumns + ` FROM serialized_units WHERE serial_number = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, serial))
}

// Update persiste una transición de estado y los campos de venta.
func (r *SerializedUnitRepo) Update(unit *entity.SerializedUnit) error {
	query := `
		UPDATE serialized_units
		SET status = $2, condition = $3, current_location_id = $4,
		    sale_id = NULLIF($5, ''), sold_to = NULLIF($6, ''), sold_at = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Status, unit.Condition, unit.CurrentLocationID,
		unit.SaleID, unit.SoldTo, unit.SoldAt, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update serialized unit: %w", err)
	}
	return nil
}

// ListByLocation lista unidades por ubicación; status vacío = todas.
func (r *SerializedUnitRepo) ListByLocation(locationID, status string, limit, offset int) ([]*entity.SerializedUnit, error) {
	query := `SELECT ` + serializedUnitColumns + ` FROM serialized_units WHERE current_location_id = $1`
	args := []any{locationID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY serial_number LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list units by location: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListBySale lista las unidades asignadas a una venta.
func (r *SerializedUnitRepo) ListBySale(saleID string) ([]*entity.SerializedUnit, error) {
	query := `SELECT ` + serializedUnitColumns + ` FROM serialized_units WHERE sale_id = $1 ORDER BY serial_number`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list units by sale: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *SerializedUnitRepo) scanOne(row pgx.Row) (*entity.SerializedUnit, error) {
	var u entity.SerializedUnit
	var saleID, soldTo *string
	err := row.Scan(&u.ID, &u.VariationID, &u.SerialNumber, &u.IMEI, &u.Status, &u.Condition,
		&u.CurrentLocationID, &saleID, &soldTo, &u.SoldAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serialized unit: %w", err)
	}
	if saleID != nil {
		u.SaleID = *saleID
	}
	if soldTo != nil {
		u.SoldTo = *soldTo
	}
	return &u, nil
}

func (r *SerializedUnitRepo) scanMany(rows pgx.Rows) ([]*entity.SerializedUnit, error) {
	var list []*entity.SerializedUnit
	for rows.Next() {
		var u entity.SerializedUnit
		var saleID, soldTo *string
		if err := rows.Scan(&u.ID, &u.VariationID, &u.SerialNumber, &u.IMEI, &u.Status, &u.Condition,
			&u.CurrentLocationID, &saleID, &soldTo, &u.SoldAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serialized unit: %w", err)
		}
		if saleID != nil {
			u.SaleID = *saleID
		}
		if soldTo != nil {
			u.SoldTo = *soldTo
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
