package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el stock actual de una variación en una ubicación. La fila
// inexistente se devuelve con cantidad cero.
func (r *StockLevelRepo) Get(variationID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT variation_id, location_id, quantity_available, updated_at
		FROM stock_levels WHERE variation_id = $1 AND location_id = $2`
	var s entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, variationID, locationID).Scan(
		&s.VariationID, &s.LocationID, &s.QuantityAvailable, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{VariationID: variationID, LocationID: locationID, QuantityAvailable: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
// Materializa primero la fila en cero si no existe: un SELECT FOR UPDATE sin
// fila no adquiere bloqueo, y dos primeras mutaciones concurrentes sobre la
// misma (variación, ubicación) leerían cero ambas y se pisarían el crédito.
// Con el INSERT previo la segunda transacción queda esperando el commit de la
// primera y toda mutación por fila es serializada.
func (r *StockLevelRepo) GetForUpdate(variationID, locationID string) (*entity.StockLevel, error) {
	insert := `
		INSERT INTO stock_levels (variation_id, location_id, quantity_available, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (variation_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, variationID, locationID); err != nil {
		return nil, fmt.Errorf("materialize stock level: %w", err)
	}
	query := `
		SELECT variation_id, location_id, quantity_available, updated_at
		FROM stock_levels WHERE variation_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, variationID, locationID).Scan(
		&s.VariationID, &s.LocationID, &s.QuantityAvailable, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad disponible. La tabla lleva un CHECK
// quantity_available >= 0 como última línea de defensa del invariante.
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (variation_id, location_id, quantity_available, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (variation_id, location_id)
		DO UPDATE SET quantity_available = EXCLUDED.quantity_available, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, level.VariationID, level.LocationID, level.QuantityAvailable)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListByLocation lista el stock de una ubicación.
func (r *StockLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT variation_id, location_id, quantity_available, updated_at
		FROM stock_levels WHERE location_id = $1
		ORDER BY variation_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by location: %w", err)
	}
	defer rows.Close()
	return scanStockLevels(rows)
}

// ListAll devuelve todas las filas de stock (reconciliación).
func (r *StockLevelRepo) ListAll() ([]*entity.StockLevel, error) {
	query := `
		SELECT variation_id, location_id, quantity_available, updated_at
		FROM stock_levels ORDER BY variation_id, location_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all stock levels: %w", err)
	}
	defer rows.Close()
	return scanStockLevels(rows)
}

func scanStockLevels(rows pgx.Rows) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.VariationID, &s.LocationID, &s.QuantityAvailable, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
