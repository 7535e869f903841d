package sales_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Pdv-api/internal/application/sales"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	locBranch  = "loc-branch-1"
	custDoe    = "cust-1"
	prodFun    = "prod-fungible"
	varFun     = "var-fungible"
	prodSerial = "prod-serial"
	varSerial  = "var-serial"
	unitA      = "unit-a"
	unitB      = "unit-b"
	sellerID   = "user-vendedor"
)

func newFixture(t *testing.T) (*inventorytest.Store, *sales.SaleUseCase, *entity.User) {
	t.Helper()
	store := inventorytest.NewStore()

	store.Locations[locBranch] = &entity.Location{ID: locBranch, Code: "SUC-01", Name: "Sucursal Centro", Type: entity.LocationTypeBranch}
	store.Customers[custDoe] = &entity.Customer{ID: custDoe, Document: "900123456", Name: "Cliente Uno"}
	store.Products[prodFun] = &entity.Product{ID: prodFun, SKU: "FUN-01", Name: "Cargador USB-C"}
	store.Variations[varFun] = &entity.ProductVariation{ID: varFun, ProductID: prodFun, SKU: "FUN-01-B", Name: "Blanco", Price: decimal.NewFromInt(100)}
	store.Products[prodSerial] = &entity.Product{ID: prodSerial, SKU: "TEL-01", Name: "Teléfono X", RequiresSerial: true}
	store.Variations[varSerial] = &entity.ProductVariation{ID: varSerial, ProductID: prodSerial, SKU: "TEL-01-128", Name: "128GB", Price: decimal.NewFromInt(500)}

	store.Units[unitA] = &entity.SerializedUnit{ID: unitA, VariationID: varSerial, SerialNumber: "SN-A", Status: entity.UnitStatusInStock, CurrentLocationID: locBranch}
	store.Units[unitB] = &entity.SerializedUnit{ID: unitB, VariationID: varSerial, SerialNumber: "SN-B", Status: entity.UnitStatusInStock, CurrentLocationID: locBranch}
	// El stock fungible de la variación serializada también vive en el ledger.
	store.SeedStock(varSerial, locBranch, 2)

	actor := &entity.User{ID: sellerID, Name: "Vendedora", Role: entity.RoleVendedor, Status: "active"}
	store.Users[sellerID] = actor

	uc := sales.NewSaleUseCase(
		&inventorytest.TxRunner{Store: store},
		inventory.NewLedger(),
		inventory.NewSerialRegistry(),
		&inventorytest.LocationRepo{S: store},
		&inventorytest.CustomerRepo{S: store},
		&inventorytest.ProductRepo{S: store},
		store.Repos().Sales,
	)
	return store, uc, actor
}

func saleRequest(items []dto.SaleItemRequest, payments []dto.PaymentRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		LocationID: locBranch,
		CustomerID: custDoe,
		Items:      items,
		Payments:   payments,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DebitaStockYNumeraFactura(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	sale, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(5)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(500)}},
	))
	require.NoError(t, err)

	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(95)),
		"el stock debe quedar en 95 tras vender 5 de 100")
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}-\d{4}$`), sale.InvoiceNumber,
		"el número de factura debe seguir el patrón INV-yymmdd-secuencia")
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(500)))

	// El diario registra el débito con referencia a la venta.
	var saleMovs int
	for _, m := range store.Movements {
		if m.ReferenceType == entity.ReferenceTypeSale && m.ReferenceID == sale.ID {
			saleMovs++
			assert.True(t, m.Quantity.Equal(decimal.NewFromInt(-5)))
		}
	}
	assert.Equal(t, 1, saleMovs, "cada débito de venta deja exactamente un movimiento")
}

func TestCreateSale_SecuenciaDiariaIncrementa(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	first, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(1)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(100)}},
	))
	require.NoError(t, err)
	second, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(1)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(100)}},
	))
	require.NoError(t, err)

	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber,
		"dos ventas del mismo día deben tener números de factura distintos")
	assert.True(t, strings.HasSuffix(first.InvoiceNumber, "-0001"))
	assert.True(t, strings.HasSuffix(second.InvoiceNumber, "-0002"),
		"el contador diario reserva consecutivos, nunca recuenta cabeceras")
}

func TestCreateSale_StockInsuficiente(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 95)

	_, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(100)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(10000)}},
	))
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Contains(t, err.Error(), "Insufficient stock")
	assert.Contains(t, err.Error(), "Available: 95",
		"el error debe incluir la cantidad disponible para que el operador corrija")
	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(95)),
		"una venta rechazada no debe tocar el stock")
}

func TestCreateSale_ConteoDeSerialesIncorrecto(t *testing.T) {
	_, uc, actor := newFixture(t)

	_, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{
			ProductID:       prodSerial,
			VariationID:     varSerial,
			Quantity:        decimal.NewFromInt(2),
			SerialNumberIDs: []string{unitA}, // falta uno
		}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(1000)}},
	))
	require.Error(t, err)

	var mismatch *domain.SerialCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, err.Error(), "Serial number count mismatch")
	assert.Contains(t, err.Error(), "Expected: 2")
}

func TestCreateSale_UnidadNoDisponible(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.Units[unitA].Status = entity.UnitStatusSold
	store.Units[unitA].SaleID = "venta-previa"

	_, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{
			ProductID:       prodSerial,
			VariationID:     varSerial,
			Quantity:        decimal.NewFromInt(1),
			SerialNumberIDs: []string{unitA},
		}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(500)}},
	))
	require.Error(t, err)

	var notAvailable *domain.UnitNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Contains(t, err.Error(), "not available for sale")
}

func TestCreateSale_PagosNoCuadran(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	_, err := uc.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		LocationID: locBranch,
		Items:      []dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(3)}},
		TaxAmount:  decimal.NewFromInt(50),
		Payments:   []dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(300)}},
	})
	require.Error(t, err)

	var payment *domain.PaymentMismatchError
	require.ErrorAs(t, err, &payment)
	assert.Contains(t, err.Error(), "Payment total 300.00 does not match sale total 350.00")
	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(100)),
		"los pagos que no cuadran deben abortar antes de cualquier débito")
}

func TestCreateSale_PagoDentroDeTolerancia(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	// 300.01 contra un total de 300: dentro de la tolerancia de 0.01.
	_, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(3)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromFloat(300.01)}},
	))
	assert.NoError(t, err, "una diferencia de 0.01 debe aceptarse")
}

func TestCreateSale_VentaConSeriales(t *testing.T) {
	store, uc, actor := newFixture(t)

	sale, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{
			ProductID:       prodSerial,
			VariationID:     varSerial,
			Quantity:        decimal.NewFromInt(2),
			SerialNumberIDs: []string{unitA, unitB},
		}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(1000)}},
	))
	require.NoError(t, err)

	assert.Equal(t, entity.UnitStatusSold, store.Units[unitA].Status)
	assert.Equal(t, sale.ID, store.Units[unitA].SaleID)
	assert.Equal(t, entity.UnitStatusSold, store.Units[unitB].Status)
	assert.True(t, store.StockQty(varSerial, locBranch).Equal(decimal.Zero),
		"las unidades serializadas también debitan el ledger por cantidad")

	// Cada unidad deja su fila en la bitácora, siempre con la unidad referenciada.
	for _, m := range store.UnitMovs {
		assert.NotEmpty(t, m.SerializedUnitID, "ningún movimiento de unidad puede quedar huérfano")
	}
}

func TestCreateSale_SinPermiso(t *testing.T) {
	_, uc, _ := newFixture(t)
	bodeguero := &entity.User{ID: "user-b", Name: "Bodeguero", Role: entity.RoleBodeguero, Status: "active"}

	_, err := uc.CreateSale(context.Background(), bodeguero, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(1)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(100)}},
	))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateSale_ReferenciaDeClienteEsIdempotente(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	req := saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(5)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(500)}},
	)
	req.ClientReference = "terminal-7-000123"

	sale, err := uc.CreateSale(context.Background(), actor, req)
	require.NoError(t, err)
	require.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(95)))

	// Reenvío de la misma venta (reintento de red de la terminal): conflicto,
	// sin segundo débito ni segunda cabecera.
	_, err = uc.CreateSale(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(95)),
		"el reintento jamás debita dos veces")
	assert.Len(t, store.Sales, 1)

	stored, err := uc.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, stored.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// VoidSale
// ──────────────────────────────────────────────────────────────────────────────

func TestVoidSale_RestauraStockYSeriales(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	sale, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{
			{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(5)},
			{ProductID: prodSerial, VariationID: varSerial, Quantity: decimal.NewFromInt(1), SerialNumberIDs: []string{unitA}},
		},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(1000)}},
	))
	require.NoError(t, err)
	require.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(95)))

	voided, err := uc.VoidSale(context.Background(), actor, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(100)),
		"la anulación debe restaurar el stock exacto")
	assert.Equal(t, entity.UnitStatusInStock, store.Units[unitA].Status,
		"la unidad vendida debe regresar a in_stock")
	assert.Empty(t, store.Units[unitA].SaleID)
	assert.Equal(t, locBranch, store.Units[unitA].CurrentLocationID)

	// La cabecera sobrevive: void es transición, nunca delete.
	stored, _ := store.Repos().Sales.GetByID(sale.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.SaleStatusVoided, stored.Status)
}

func TestVoidSale_Idempotente(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)

	sale, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(5)}},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(500)}},
	))
	require.NoError(t, err)

	_, err = uc.VoidSale(context.Background(), actor, sale.ID)
	require.NoError(t, err)
	require.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(100)))

	_, err = uc.VoidSale(context.Background(), actor, sale.ID)
	assert.ErrorIs(t, err, domain.ErrSaleAlreadyVoided,
		"anular dos veces debe rechazarse")
	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(100)),
		"la segunda anulación nunca debe acreditar doble")
}

func TestVoidSale_VentaInexistente(t *testing.T) {
	_, uc, actor := newFixture(t)
	_, err := uc.VoidSale(context.Background(), actor, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_FalloParcialAbortaTodo(t *testing.T) {
	store, uc, actor := newFixture(t)
	store.SeedStock(varFun, locBranch, 100)
	// La variación serializada queda sin stock en el ledger: la segunda línea
	// falla recién en la fase de efectos, después del débito de la primera.
	store.SeedStock(varSerial, locBranch, 0)

	_, err := uc.CreateSale(context.Background(), actor, saleRequest(
		[]dto.SaleItemRequest{
			{ProductID: prodFun, VariationID: varFun, Quantity: decimal.NewFromInt(5)},
			{ProductID: prodSerial, VariationID: varSerial, Quantity: decimal.NewFromInt(1), SerialNumberIDs: []string{unitA}},
		},
		[]dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(1000)}},
	))
	require.Error(t, err)

	assert.True(t, store.StockQty(varFun, locBranch).Equal(decimal.NewFromInt(100)),
		"el débito de la primera línea debe revertirse con el fallo de la segunda")
	assert.Empty(t, store.Sales, "no debe persistir ninguna cabecera de venta")
}
