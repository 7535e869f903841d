package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

const (
	locWarehouse = "loc-bodega"
	prodRouter   = "prod-router"
	varRouter    = "var-router"
	prodTablet   = "prod-tablet"
	varTablet    = "var-tablet"
)

func newReceiptFixture(t *testing.T) (*inventorytest.Store, *inventory.ReceiptUseCase, *entity.User) {
	t.Helper()
	store := inventorytest.NewStore()
	store.Locations[locWarehouse] = &entity.Location{ID: locWarehouse, Code: "BOD-01", Name: "Bodega Principal", Type: entity.LocationTypeWarehouse}
	store.Products[prodRouter] = &entity.Product{ID: prodRouter, SKU: "ROU-01", Name: "Router AC"}
	store.Variations[varRouter] = &entity.ProductVariation{ID: varRouter, ProductID: prodRouter, SKU: "ROU-01-STD", Name: "Estándar", Price: decimal.NewFromInt(80)}
	store.Products[prodTablet] = &entity.Product{ID: prodTablet, SKU: "TAB-01", Name: "Tablet Z", RequiresSerial: true}
	store.Variations[varTablet] = &entity.ProductVariation{ID: varTablet, ProductID: prodTablet, SKU: "TAB-01-32", Name: "32GB", Price: decimal.NewFromInt(250)}

	actor := &entity.User{ID: "user-bodeguero", Name: "Bodeguero", Role: entity.RoleBodeguero, Status: "active"}
	store.Users[actor.ID] = actor

	uc := inventory.NewReceiptUseCase(
		&inventorytest.TxRunner{Store: store},
		inventory.NewLedger(),
		inventory.NewSerialRegistry(),
		&inventorytest.LocationRepo{S: store},
		&inventorytest.ProductRepo{S: store},
	)
	return store, uc, actor
}

func TestCreateReceipt_AcreditaStockYRegistraUnidades(t *testing.T) {
	store, uc, actor := newReceiptFixture(t)

	receiptID, err := uc.CreateReceipt(context.Background(), actor, dto.CreateReceiptRequest{
		LocationID: locWarehouse,
		Items: []dto.ReceiptItemRequest{
			{ProductID: prodRouter, VariationID: varRouter, Quantity: decimal.NewFromInt(20)},
			{ProductID: prodTablet, VariationID: varTablet, Quantity: decimal.NewFromInt(2), Serials: []dto.SerialRequest{
				{SerialNumber: "SN-TAB-001", IMEI: "350000000000001"},
				{SerialNumber: "SN-TAB-002"},
			}},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, receiptID)

	assert.True(t, store.StockQty(varRouter, locWarehouse).Equal(decimal.NewFromInt(20)))
	assert.True(t, store.StockQty(varTablet, locWarehouse).Equal(decimal.NewFromInt(2)),
		"las líneas serializadas también acreditan el ledger por cantidad")

	var registered int
	for _, unit := range store.Units {
		if unit.VariationID != varTablet {
			continue
		}
		registered++
		assert.Equal(t, entity.UnitStatusInStock, unit.Status)
		assert.Equal(t, entity.UnitConditionNew, unit.Condition, "condición por defecto")
		assert.Equal(t, locWarehouse, unit.CurrentLocationID)
	}
	assert.Equal(t, 2, registered)

	// Cada unidad nace con su movimiento receipt en la bitácora.
	var receiptMovs int
	for _, m := range store.UnitMovs {
		if m.ReferenceType == entity.ReferenceTypePurchaseReceipt && m.ReferenceID == receiptID {
			receiptMovs++
			assert.NotEmpty(t, m.SerializedUnitID)
		}
	}
	assert.Equal(t, 2, receiptMovs)
}

func TestCreateReceipt_ConteoDeSerialesIncorrecto(t *testing.T) {
	store, uc, actor := newReceiptFixture(t)

	_, err := uc.CreateReceipt(context.Background(), actor, dto.CreateReceiptRequest{
		LocationID: locWarehouse,
		Items: []dto.ReceiptItemRequest{
			{ProductID: prodTablet, VariationID: varTablet, Quantity: decimal.NewFromInt(3), Serials: []dto.SerialRequest{
				{SerialNumber: "SN-TAB-001"},
			}},
		},
	})
	require.Error(t, err)
	var mismatch *domain.SerialCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, err.Error(), "Expected: 3")
	assert.True(t, store.StockQty(varTablet, locWarehouse).Equal(decimal.Zero))
	assert.Empty(t, store.Units)
}

func TestCreateReceipt_SerialDuplicadoAbortaTodo(t *testing.T) {
	store, uc, actor := newReceiptFixture(t)
	store.Units["unit-existente"] = &entity.SerializedUnit{
		ID: "unit-existente", VariationID: varTablet, SerialNumber: "SN-TAB-001",
		Status: entity.UnitStatusInStock, CurrentLocationID: locWarehouse,
	}

	_, err := uc.CreateReceipt(context.Background(), actor, dto.CreateReceiptRequest{
		LocationID: locWarehouse,
		Items: []dto.ReceiptItemRequest{
			{ProductID: prodRouter, VariationID: varRouter, Quantity: decimal.NewFromInt(5)},
			{ProductID: prodTablet, VariationID: varTablet, Quantity: decimal.NewFromInt(1), Serials: []dto.SerialRequest{
				{SerialNumber: "SN-TAB-001"}, // ya existe
			}},
		},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, store.StockQty(varRouter, locWarehouse).Equal(decimal.Zero),
		"el crédito de la primera línea se revierte junto con el serial duplicado")
}

func TestCreateReceipt_SinPermiso(t *testing.T) {
	_, uc, _ := newReceiptFixture(t)
	vendedor := &entity.User{ID: "user-v", Name: "Vendedora", Role: entity.RoleVendedor, Status: "active"}

	_, err := uc.CreateReceipt(context.Background(), vendedor, dto.CreateReceiptRequest{
		LocationID: locWarehouse,
		Items:      []dto.ReceiptItemRequest{{ProductID: prodRouter, VariationID: varRouter, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateReceipt_UbicacionInexistente(t *testing.T) {
	_, uc, actor := newReceiptFixture(t)

	_, err := uc.CreateReceipt(context.Background(), actor, dto.CreateReceiptRequest{
		LocationID: "no-existe",
		Items:      []dto.ReceiptItemRequest{{ProductID: prodRouter, VariationID: varRouter, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
