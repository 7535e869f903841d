package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRow es un pgx.Row con valores fijos para Scan.
type scriptedRow struct {
	vals []any
	err  error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case *int:
			*p = r.vals[i].(int)
		case *decimal.Decimal:
			*p = r.vals[i].(decimal.Decimal)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		}
	}
	return nil
}

// recordingQuerier registra cada sentencia en orden de emisión.
type recordingQuerier struct {
	log []string
	row scriptedRow
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.log = append(q.log, "exec:"+sql)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.log = append(q.log, "query:"+sql)
	return nil, pgx.ErrNoRows
}

func (q *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.log = append(q.log, "queryrow:"+sql)
	return q.row
}

// ──────────────────────────────────────────────────────────────────────────────

func TestStockLevelGetForUpdate_MaterializaAntesDeBloquear(t *testing.T) {
	q := &recordingQuerier{
		row: scriptedRow{vals: []any{"var-1", "loc-1", decimal.NewFromInt(7), time.Now()}},
	}
	repo := NewStockLevelRepository(q)

	level, err := repo.GetForUpdate("var-1", "loc-1")
	require.NoError(t, err)
	assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromInt(7)))

	// Primero el INSERT que garantiza la fila, después el SELECT que la
	// bloquea: un FOR UPDATE sin fila no adquiere ningún bloqueo y dos
	// primeras mutaciones concurrentes se pisarían el crédito.
	require.Len(t, q.log, 2)
	assert.True(t, strings.HasPrefix(q.log[0], "exec:"), "la fila debe materializarse antes del bloqueo")
	assert.Contains(t, q.log[0], "INSERT INTO stock_levels")
	assert.Contains(t, q.log[0], "ON CONFLICT (variation_id, location_id) DO NOTHING")
	assert.True(t, strings.HasPrefix(q.log[1], "queryrow:"))
	assert.Contains(t, q.log[1], "FOR UPDATE")
}

func TestStockLevelGetForUpdate_ErrorDeScanSePropaga(t *testing.T) {
	q := &recordingQuerier{row: scriptedRow{err: pgx.ErrNoRows}}
	repo := NewStockLevelRepository(q)

	// Tras materializar, la fila siempre existe: cualquier fallo del Scan es
	// un error real, nunca el caso "sin fila devuelve cero" del Get de lectura.
	_, err := repo.GetForUpdate("var-1", "loc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get stock level for update")
}
