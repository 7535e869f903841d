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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto de ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, invoice_number, location_id, COALESCE(customer_id, ''), status,
	subtotal, tax_amount, discount_amount, shipping_amount, total, COALESCE(notes, ''),
	created_by, COALESCE(voided_by, ''), voided_at, created_at, updated_at`

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, invoice_number, location_id, customer_id, status, subtotal, tax_amount, discount_amount, shipping_amount, total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.InvoiceNumber, sale.LocationID, sale.CustomerID, sale.Status,
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.ShippingAmount, sale.Total,
		sale.Notes, sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, variation_id, quantity, unit_price, subtotal, serialized_unit_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.VariationID,
		item.Quantity, item.UnitPrice, item.Subtotal, item.SerializedUnitIDs,
	)
	if err != nil {
		return fmt.Errorf("create sale item: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago declarado de la venta.
func (r *SaleRepo) CreatePayment(payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	query := `INSERT INTO sale_payments (id, sale_id, method, amount) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SaleID, payment.Method, payment.Amount,
	)
	if err != nil {
		return fmt.Errorf("create sale payment: %w", err)
	}
	return nil
}

// GetByID devuelve la venta con sus ítems y pagos cargados.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.get(id, false)
}

// GetByIDForUpdate bloquea la cabecera de la venta dentro de la transacción.
func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	return r.get(id, true)
}

func (r *SaleRepo) get(id string, forUpdate bool) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	sale, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(sale); err != nil {
		return nil, err
	}
	if err := r.loadPayments(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *SaleRepo) loadItems(sale *entity.Sale) error {
	query := `
		SELECT id, sale_id, product_id, variation_id, quantity, unit_price, subtotal, serialized_unit_ids
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.VariationID,
			&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.SerializedUnitIDs); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, &item)
	}
	return rows.Err()
}

func (r *SaleRepo) loadPayments(sale *entity.Sale) error {
	query := `SELECT id, sale_id, method, amount FROM sale_payments WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount); err != nil {
			return fmt.Errorf("scan sale payment: %w", err)
		}
		sale.Payments = append(sale.Payments, &p)
	}
	return rows.Err()
}

// UpdateStatus marca la venta con el estado dado (void). Nunca se borra la fila.
func (r *SaleRepo) UpdateStatus(id, status, voidedBy string, voidedAt time.Time) error {
	query := `
		UPDATE sales SET status = $2, voided_by = NULLIF($3, ''), voided_at = $4, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, voidedBy, voidedAt)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSeqForDay reserva el siguiente consecutivo de factura del día en una
// sola sentencia: el UPDATE del contador bloquea la fila del día, así dos
// ventas concurrentes quedan serializadas y nunca comparten número.
func (r *SaleRepo) NextSeqForDay(day time.Time) (int, error) {
	var seq int
	query := `
		INSERT INTO sale_number_counters (day, value) VALUES ($1::date, 1)
		ON CONFLICT (day) DO UPDATE SET value = sale_number_counters.value + 1
		RETURNING value`
	if err := r.q.QueryRow(context.Background(), query, day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sale sequence: %w", err)
	}
	return seq, nil
}

// ListByLocation lista ventas de una ubicación, más reciente primero.
// Las cabeceras se devuelven sin ítems ni pagos.
func (r *SaleRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE location_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales by location: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, sale)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.LocationID, &s.CustomerID, &s.Status,
		&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.ShippingAmount, &s.Total, &s.Notes,
		&s.CreatedBy, &s.VoidedBy, &s.VoidedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
