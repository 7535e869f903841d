package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación del puerto de traslados sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, from_location_id, to_location_id, status,
	stock_deducted, COALESCE(notes, ''), COALESCE(check_remarks, ''),
	created_by, COALESCE(checked_by, ''), COALESCE(sent_by, ''), COALESCE(arrived_by, ''),
	COALESCE(verified_by, ''), COALESCE(completed_by, ''), COALESCE(cancelled_by, ''),
	checked_at, sent_at, arrived_at, verified_at, completed_at, cancelled_at,
	created_at, updated_at`

// Create persiste la cabecera del traslado.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (id, transfer_number, from_location_id, to_location_id, status, stock_deducted, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.TransferNumber, transfer.FromLocationID, transfer.ToLocationID,
		transfer.Status, transfer.StockDeducted, transfer.Notes, transfer.CreatedBy,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del traslado.
func (r *TransferRepo) CreateItem(item *entity.TransferItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfer_items (id, transfer_id, product_id, variation_id, quantity_sent, quantity_received, verified, serialized_unit_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TransferID, item.ProductID, item.VariationID,
		item.QuantitySent, item.QuantityReceived, item.Verified, item.SerializedUnitIDs,
	)
	if err != nil {
		return fmt.Errorf("create transfer item: %w", err)
	}
	return nil
}

// GetByID devuelve el traslado con sus ítems cargados.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	return r.get(id, false)
}

// GetByIDForUpdate bloquea la cabecera dentro de la transacción.
func (r *TransferRepo) GetByIDForUpdate(id string) (*entity.Transfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	transfer, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (r *TransferRepo) loadItems(transfer *entity.Transfer) error {
	query := `
		SELECT id, transfer_id, product_id, variation_id, quantity_sent, quantity_received, verified, COALESCE(verified_by, ''), verified_at, serialized_unit_ids
		FROM transfer_items WHERE transfer_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transfer.ID)
	if err != nil {
		return fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.TransferItem
		if err := rows.Scan(&item.ID, &item.TransferID, &item.ProductID, &item.VariationID,
			&item.QuantitySent, &item.QuantityReceived, &item.Verified,
			&item.VerifiedBy, &item.VerifiedAt, &item.SerializedUnitIDs); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		transfer.Items = append(transfer.Items, &item)
	}
	return rows.Err()
}

// Update persiste la cabecera completa (estado, actores y fechas del workflow).
func (r *TransferRepo) Update(transfer *entity.Transfer) error {
	query := `
		UPDATE transfers SET
			status = $2, stock_deducted = $3, notes = NULLIF($4, ''), check_remarks = NULLIF($5, ''),
			checked_by = NULLIF($6, ''), sent_by = NULLIF($7, ''), arrived_by = NULLIF($8, ''),
			verified_by = NULLIF($9, ''), completed_by = NULLIF($10, ''), cancelled_by = NULLIF($11, ''),
			checked_at = $12, sent_at = $13, arrived_at = $14,
			verified_at = $15, completed_at = $16, cancelled_at = $17,
			updated_at = $18
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Status, transfer.StockDeducted, transfer.Notes, transfer.CheckRemarks,
		transfer.CheckedBy, transfer.SentBy, transfer.ArrivedBy,
		transfer.VerifiedBy, transfer.CompletedBy, transfer.CancelledBy,
		transfer.CheckedAt, transfer.SentAt, transfer.ArrivedAt,
		transfer.VerifiedAt, transfer.CompletedAt, transfer.CancelledAt,
		transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItem persiste la verificación de una línea.
func (r *TransferRepo) UpdateItem(item *entity.TransferItem) error {
	query := `
		UPDATE transfer_items SET quantity_received = $2, verified = $3, verified_by = NULLIF($4, ''), verified_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.QuantityReceived, item.Verified, item.VerifiedBy, item.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSeqForDay reserva el siguiente consecutivo TRF del día con la misma
// sentencia atómica de contador que usa la numeración de facturas.
func (r *TransferRepo) NextSeqForDay(day time.Time) (int, error) {
	var seq int
	query := `
		INSERT INTO transfer_number_counters (day, value) VALUES ($1::date, 1)
		ON CONFLICT (day) DO UPDATE SET value = transfer_number_counters.value + 1
		RETURNING value`
	if err := r.q.QueryRow(context.Background(), query, day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next transfer sequence: %w", err)
	}
	return seq, nil
}

// ListByStatus lista traslados en un estado dado, más reciente primero.
func (r *TransferRepo) ListByStatus(status string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, status, limit, offset)
}

// ListByLocation lista traslados donde la ubicación es origen o destino.
func (r *TransferRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
		WHERE from_location_id = $1 OR to_location_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, locationID, limit, offset)
}

func (r *TransferRepo) list(query string, args ...interface{}) ([]*entity.Transfer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, transfer)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(&t.ID, &t.TransferNumber, &t.FromLocationID, &t.ToLocationID, &t.Status,
		&t.StockDeducted, &t.Notes, &t.CheckRemarks,
		&t.CreatedBy, &t.CheckedBy, &t.SentBy, &t.ArrivedBy,
		&t.VerifiedBy, &t.CompletedBy, &t.CancelledBy,
		&t.CheckedAt, &t.SentAt, &t.ArrivedAt, &t.VerifiedAt, &t.CompletedAt, &t.CancelledAt,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
