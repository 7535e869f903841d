package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleNextSeqForDay_UnaSolaSentenciaAtomica(t *testing.T) {
	q := &recordingQuerier{row: scriptedRow{vals: []any{3}}}
	repo := NewSaleRepository(q)

	seq, err := repo.NextSeqForDay(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, seq)

	// El consecutivo es un solo INSERT…ON CONFLICT…RETURNING: el UPDATE del
	// contador bloquea la fila del día y dos ventas concurrentes quedan
	// serializadas, nunca con el mismo número.
	require.Len(t, q.log, 1)
	assert.Contains(t, q.log[0], "INSERT INTO sale_number_counters")
	assert.Contains(t, q.log[0], "DO UPDATE SET value = sale_number_counters.value + 1")
	assert.Contains(t, q.log[0], "RETURNING value")
}

func TestTransferNextSeqForDay_UnaSolaSentenciaAtomica(t *testing.T) {
	q := &recordingQuerier{row: scriptedRow{vals: []any{1}}}
	repo := NewTransferRepository(q)

	seq, err := repo.NextSeqForDay(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	require.Len(t, q.log, 1)
	assert.Contains(t, q.log[0], "INSERT INTO transfer_number_counters")
	assert.Contains(t, q.log[0], "DO UPDATE SET value = transfer_number_counters.value + 1")
	assert.Contains(t, q.log[0], "RETURNING value")
}
