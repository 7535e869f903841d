package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// La tabla de transiciones es cerrada: el flujo feliz completo pasa, cualquier
// salto de estado se rechaza, y la cancelación solo existe en los cuatro
// estados previos a la llegada.
// ──────────────────────────────────────────────────────────────────────────────

func TestNextTransferStatus_FlujoFeliz(t *testing.T) {
	steps := []struct {
		from, action, to string
	}{
		{entity.TransferStatusDraft, entity.TransferActionSubmitForCheck, entity.TransferStatusPendingCheck},
		{entity.TransferStatusPendingCheck, entity.TransferActionCheckApprove, entity.TransferStatusChecked},
		{entity.TransferStatusChecked, entity.TransferActionSend, entity.TransferStatusInTransit},
		{entity.TransferStatusInTransit, entity.TransferActionMarkArrived, entity.TransferStatusArrived},
		{entity.TransferStatusArrived, entity.TransferActionStartVerification, entity.TransferStatusVerifying},
		{entity.TransferStatusVerifying, entity.TransferActionFinishVerification, entity.TransferStatusVerified},
		{entity.TransferStatusVerified, entity.TransferActionComplete, entity.TransferStatusCompleted},
	}
	for _, s := range steps {
		next, ok := entity.NextTransferStatus(s.from, s.action)
		assert.True(t, ok, "%s desde %s debe ser válida", s.action, s.from)
		assert.Equal(t, s.to, next)
	}
}

func TestNextTransferStatus_Rechazo(t *testing.T) {
	next, ok := entity.NextTransferStatus(entity.TransferStatusPendingCheck, entity.TransferActionCheckReject)
	assert.True(t, ok)
	assert.Equal(t, entity.TransferStatusDraft, next, "reject regresa el traslado a draft")
}

func TestNextTransferStatus_SaltosInvalidos(t *testing.T) {
	invalid := []struct{ from, action string }{
		{entity.TransferStatusDraft, entity.TransferActionSend},
		{entity.TransferStatusDraft, entity.TransferActionComplete},
		{entity.TransferStatusChecked, entity.TransferActionCheckApprove},
		{entity.TransferStatusArrived, entity.TransferActionComplete},
		{entity.TransferStatusVerifying, entity.TransferActionComplete},
		{entity.TransferStatusCompleted, entity.TransferActionCancel},
		{entity.TransferStatusCancelled, entity.TransferActionSubmitForCheck},
	}
	for _, s := range invalid {
		_, ok := entity.NextTransferStatus(s.from, s.action)
		assert.False(t, ok, "%s desde %s debe rechazarse", s.action, s.from)
	}
}

func TestTransferCancellable_SoloPreLlegada(t *testing.T) {
	cancellable := []string{
		entity.TransferStatusDraft,
		entity.TransferStatusPendingCheck,
		entity.TransferStatusChecked,
		entity.TransferStatusInTransit,
	}
	for _, s := range cancellable {
		assert.True(t, entity.TransferCancellable(s), "%s debe admitir cancelación", s)
	}
	notCancellable := []string{
		entity.TransferStatusArrived,
		entity.TransferStatusVerifying,
		entity.TransferStatusVerified,
		entity.TransferStatusCompleted,
		entity.TransferStatusCancelled,
	}
	for _, s := range notCancellable {
		assert.False(t, entity.TransferCancellable(s), "%s no debe admitir cancelación", s)
	}
}

func TestTransferItem_Variance(t *testing.T) {
	item := &entity.TransferItem{
		QuantitySent:     decimal.NewFromInt(10),
		QuantityReceived: decimal.NewFromInt(8),
	}
	assert.True(t, item.Variance().Equal(decimal.NewFromInt(-2)), "faltante de 2 unidades")
}

func TestAllItemsVerified(t *testing.T) {
	tr := &entity.Transfer{Items: []*entity.TransferItem{
		{Verified: true},
		{Verified: false},
	}}
	assert.False(t, tr.AllItemsVerified())

	tr.Items[1].Verified = true
	assert.True(t, tr.AllItemsVerified())

	empty := &entity.Transfer{}
	assert.False(t, empty.AllItemsVerified(), "sin ítems no hay nada que verificar")
}
