package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

func TestLedger_DebitoYCredito(t *testing.T) {
	store := inventorytest.NewStore()
	store.SeedStock("var-1", "loc-1", 10)
	ledger := inventory.NewLedger()
	runner := &inventorytest.TxRunner{Store: store}
	now := time.Now()

	err := runner.Run(context.Background(), func(r inventory.TxRepos) error {
		if err := ledger.DebitInTx(r, "var-1", "loc-1", decimal.NewFromInt(4),
			entity.ReferenceTypeSale, "sale-1", "user-1", now); err != nil {
			return err
		}
		return ledger.CreditInTx(r, "var-1", "loc-1", decimal.NewFromInt(1),
			entity.ReferenceTypeSaleVoid, "sale-0", "user-1", now)
	})
	require.NoError(t, err)
	assert.True(t, store.StockQty("var-1", "loc-1").Equal(decimal.NewFromInt(7)))
	assert.Len(t, store.Movements, 3, "seed + débito + crédito, una fila por mutación")
}

func TestLedger_DebitoExcesivoFalla(t *testing.T) {
	store := inventorytest.NewStore()
	store.SeedStock("var-1", "loc-1", 3)
	ledger := inventory.NewLedger()
	runner := &inventorytest.TxRunner{Store: store}

	err := runner.Run(context.Background(), func(r inventory.TxRepos) error {
		return ledger.DebitInTx(r, "var-1", "loc-1", decimal.NewFromInt(5),
			entity.ReferenceTypeSale, "sale-1", "user-1", time.Now())
	})
	require.Error(t, err)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Contains(t, err.Error(), "Available: 3")
	assert.True(t, store.StockQty("var-1", "loc-1").Equal(decimal.NewFromInt(3)),
		"el débito rechazado no muta el stock")
}

func TestLedger_PrimerCreditoMaterializaFila(t *testing.T) {
	store := inventorytest.NewStore()
	ledger := inventory.NewLedger()
	runner := &inventorytest.TxRunner{Store: store}
	now := time.Now()

	// Dos créditos sucesivos sobre una (variación, ubicación) sin fila previa:
	// la fila se materializa en el primero y el segundo acumula sobre ella, de
	// modo que el stock nunca pierde un crédito y siempre iguala al diario.
	for i, ref := range []string{"receipt-1", "receipt-2"} {
		err := runner.Run(context.Background(), func(r inventory.TxRepos) error {
			return ledger.CreditInTx(r, "var-nueva", "loc-1", decimal.NewFromInt(int64(3+i)),
				entity.ReferenceTypePurchaseReceipt, ref, "user-1", now)
		})
		require.NoError(t, err)
	}

	assert.True(t, store.StockQty("var-nueva", "loc-1").Equal(decimal.NewFromInt(7)))
	repos := store.Repos()
	resp, err := inventory.NewReconcileUseCase(repos.Stock, repos.Movements).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Consistent, "la suma del diario debe igualar el stock materializado")
}

func TestLedger_DebitoSinFilaDeStock(t *testing.T) {
	store := inventorytest.NewStore()
	ledger := inventory.NewLedger()
	runner := &inventorytest.TxRunner{Store: store}

	// Sin fila materializada el disponible es cero: cualquier débito falla.
	err := runner.Run(context.Background(), func(r inventory.TxRepos) error {
		return ledger.DebitInTx(r, "var-x", "loc-x", decimal.NewFromInt(1),
			entity.ReferenceTypeSale, "sale-1", "user-1", time.Now())
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Contains(t, err.Error(), "Available: 0")
}

func TestLedger_CantidadesNoPositivasSeRechazan(t *testing.T) {
	store := inventorytest.NewStore()
	store.SeedStock("var-1", "loc-1", 10)
	ledger := inventory.NewLedger()
	runner := &inventorytest.TxRunner{Store: store}

	err := runner.Run(context.Background(), func(r inventory.TxRepos) error {
		return ledger.DebitInTx(r, "var-1", "loc-1", decimal.Zero,
			entity.ReferenceTypeSale, "sale-1", "user-1", time.Now())
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = runner.Run(context.Background(), func(r inventory.TxRepos) error {
		return ledger.CreditInTx(r, "var-1", "loc-1", decimal.NewFromInt(-2),
			entity.ReferenceTypeSaleVoid, "sale-1", "user-1", time.Now())
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_AlreadyApplied(t *testing.T) {
	store := inventorytest.NewStore()
	store.SeedStock("var-1", "loc-1", 10)
	ledger := inventory.NewLedger()
	runner := &inventorytest.TxRunner{Store: store}
	now := time.Now()

	err := runner.Run(context.Background(), func(r inventory.TxRepos) error {
		applied, err := ledger.AlreadyApplied(r, entity.ReferenceTypeSale, "sale-1")
		require.NoError(t, err)
		assert.False(t, applied, "sin movimientos previos la referencia está libre")

		if err := ledger.DebitInTx(r, "var-1", "loc-1", decimal.NewFromInt(2),
			entity.ReferenceTypeSale, "sale-1", "user-1", now); err != nil {
			return err
		}

		applied, err = ledger.AlreadyApplied(r, entity.ReferenceTypeSale, "sale-1")
		require.NoError(t, err)
		assert.True(t, applied, "tras el débito la referencia queda marcada")

		// El tipo de referencia distingue: el void de la misma venta sigue libre.
		applied, err = ledger.AlreadyApplied(r, entity.ReferenceTypeSaleVoid, "sale-1")
		require.NoError(t, err)
		assert.False(t, applied)
		return nil
	})
	require.NoError(t, err)
}
