package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// SaleUseCase procesa ventas: valida, confirma y anula componiendo débitos del
// ledger, transiciones de unidades serializadas y entradas de auditoría en una
// sola unidad todo-o-nada: las lecturas de catálogo van fuera de la tx, toda
// mutación adentro con bloqueo de filas.
type SaleUseCase struct {
	txRunner     inventory.TxRunner
	ledger       *inventory.Ledger
	registry     *inventory.SerialRegistry
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	registry *inventory.SerialRegistry,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		registry:     registry,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
	}
}

// CreateSale valida en el orden del contrato (primero stock fungible, luego
// conteo y disponibilidad de seriales, al final la suma de pagos) y confirma la
// venta: débitos del ledger por ítem, asignación de unidades, cabecera con
// ítems y pagos, y una entrada de auditoría. Cualquier fallo posterior a la
// validación aborta todos los efectos parciales.
func (uc *SaleUseCase) CreateSale(ctx context.Context, actor *entity.User, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermSaleCreate) {
		return nil, domain.ErrForbidden
	}
	if in.LocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !actor.HasLocationAccess(in.LocationID) {
		return nil, domain.ErrForbidden
	}

	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	// Catálogo: solo lectura, fuera de la tx.
	type line struct {
		req       dto.SaleItemRequest
		product   *entity.Product
		variation *entity.ProductVariation
	}
	lines := make([]line, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, item := range in.Items {
		if item.VariationID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		variation, err := uc.productRepo.GetVariationByID(item.VariationID)
		if err != nil || variation == nil {
			return nil, domain.ErrNotFound
		}
		product, err := uc.productRepo.GetByID(variation.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = variation.Price
		}
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
		lines = append(lines, line{req: item, product: product, variation: variation})
	}

	total := entity.ComputeSaleTotal(subtotal, in.TaxAmount, in.ShippingAmount, in.DiscountAmount)

	now := time.Now()
	// saleID es también la clave de idempotencia del diario: si el cliente
	// manda su propia referencia, el reintento de la misma venta se detecta
	// antes de mutar nada.
	saleID := in.ClientReference
	if saleID == "" {
		saleID = uuid.New().String()
	}
	var sale *entity.Sale

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		// 1) Stock fungible: bloquear fila y verificar disponibilidad por ítem
		// sin serial. El bloqueo persiste hasta el commit: no hay lectura rota
		// entre el check y el débito.
		for _, ln := range lines {
			if ln.product.RequiresSerial {
				continue
			}
			if err := uc.ledger.CheckAvailableInTx(r, ln.req.VariationID, in.LocationID, ln.req.Quantity); err != nil {
				return err
			}
		}
		// 2) Seriales: conteo exacto y disponibilidad de cada unidad.
		for _, ln := range lines {
			if !ln.product.RequiresSerial {
				continue
			}
			expected := int(ln.req.Quantity.IntPart())
			if len(ln.req.SerialNumberIDs) != expected {
				return &domain.SerialCountMismatchError{
					VariationID: ln.req.VariationID,
					Expected:    expected,
					Got:         len(ln.req.SerialNumberIDs),
				}
			}
			for _, unitID := range ln.req.SerialNumberIDs {
				unit, err := r.Units.GetByIDForUpdate(unitID)
				if err != nil {
					return err
				}
				if unit == nil {
					return &domain.UnitNotAvailableError{SerialNumber: unitID, Status: "unknown"}
				}
				if !unit.Available(in.LocationID) {
					return &domain.UnitNotAvailableError{SerialNumber: unit.SerialNumber, Status: unit.Status}
				}
			}
		}
		// 3) Pagos: la suma debe igualar el total calculado (tolerancia 0.01).
		paymentTotal := decimal.Zero
		for _, p := range in.Payments {
			if p.Amount.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			paymentTotal = paymentTotal.Add(p.Amount)
		}
		if paymentTotal.Sub(total).Abs().GreaterThan(entity.PaymentTolerance) {
			return &domain.PaymentMismatchError{PaymentTotal: paymentTotal, SaleTotal: total}
		}

		// Idempotencia por referencia: el reenvío de una venta con la misma
		// client_reference nunca se aplica dos veces.
		applied, err := uc.ledger.AlreadyApplied(r, entity.ReferenceTypeSale, saleID)
		if err != nil {
			return err
		}
		if applied {
			return domain.ErrConflict
		}

		// Efectos: débito del ledger por cada ítem y asignación de unidades.
		for _, ln := range lines {
			if err := uc.ledger.DebitInTx(r, ln.req.VariationID, in.LocationID, ln.req.Quantity,
				entity.ReferenceTypeSale, saleID, actor.ID, now); err != nil {
				return err
			}
			if ln.product.RequiresSerial {
				if err := uc.registry.AllocateInTx(r, ln.req.SerialNumberIDs, saleID, in.LocationID, in.CustomerID, actor.ID, now); err != nil {
					return err
				}
			}
		}

		// Número de factura: INV-yymmdd-#### con consecutivo diario reservado
		// atómicamente dentro de la tx (el contador serializa la numeración).
		seq, err := r.Sales.NextSeqForDay(now)
		if err != nil {
			return err
		}
		invoiceNumber := fmt.Sprintf("INV-%s-%04d", now.Format("060102"), seq)

		sale = &entity.Sale{
			ID:             saleID,
			InvoiceNumber:  invoiceNumber,
			LocationID:     in.LocationID,
			CustomerID:     in.CustomerID,
			Status:         entity.SaleStatusCompleted,
			Subtotal:       subtotal,
			TaxAmount:      in.TaxAmount,
			DiscountAmount: in.DiscountAmount,
			ShippingAmount: in.ShippingAmount,
			Total:          total,
			Notes:          in.Notes,
			CreatedBy:      actor.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Sales.Create(sale); err != nil {
			return err
		}
		for _, ln := range lines {
			item := &entity.SaleItem{
				ID:                uuid.New().String(),
				SaleID:            saleID,
				ProductID:         ln.product.ID,
				VariationID:       ln.req.VariationID,
				Quantity:          ln.req.Quantity,
				UnitPrice:         ln.req.UnitPrice,
				Subtotal:          ln.req.Quantity.Mul(ln.req.UnitPrice),
				SerializedUnitIDs: ln.req.SerialNumberIDs,
			}
			if err := r.Sales.CreateItem(item); err != nil {
				return err
			}
			sale.Items = append(sale.Items, item)
		}
		for _, p := range in.Payments {
			payment := &entity.Payment{
				ID:     uuid.New().String(),
				SaleID: saleID,
				Method: p.Method,
				Amount: p.Amount,
			}
			if err := r.Sales.CreatePayment(payment); err != nil {
				return err
			}
			sale.Payments = append(sale.Payments, payment)
		}

		return r.Audit.Create(&entity.AuditLogEntry{
			UserID:      actor.ID,
			Username:    actor.Name,
			Action:      entity.AuditActionSaleCreate,
			Description: fmt.Sprintf("Sale %s created at location %s, total %s", invoiceNumber, in.LocationID, total.StringFixed(2)),
			EntityIDs:   []string{saleID, in.LocationID},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetByID devuelve la venta con ítems y pagos.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// VoidSale anula una venta: acredita el ledger por cada ítem, libera las
// unidades serializadas, marca la cabecera como voided y deja la entrada de
// auditoría. Anular una venta ya anulada se rechaza; nunca acredita doble.
func (uc *SaleUseCase) VoidSale(ctx context.Context, actor *entity.User, saleID string) (*entity.Sale, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermSaleVoid) {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var sale *entity.Sale

	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		sale, err = r.Sales.GetByIDForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return domain.ErrSaleAlreadyVoided
		}
		// Segunda guarda de idempotencia, sobre el diario: el crédito del void
		// solo puede existir una vez por venta.
		applied, err := uc.ledger.AlreadyApplied(r, entity.ReferenceTypeSaleVoid, saleID)
		if err != nil {
			return err
		}
		if applied {
			return domain.ErrSaleAlreadyVoided
		}

		for _, item := range sale.Items {
			if err := uc.ledger.CreditInTx(r, item.VariationID, sale.LocationID, item.Quantity,
				entity.ReferenceTypeSaleVoid, saleID, actor.ID, now); err != nil {
				return err
			}
		}
		if err := uc.registry.ReleaseInTx(r, saleID, sale.LocationID, actor.ID, now); err != nil {
			return err
		}
		if err := r.Sales.UpdateStatus(saleID, entity.SaleStatusVoided, actor.ID, now); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidedBy = actor.ID
		voidedAt := now
		sale.VoidedAt = &voidedAt

		return r.Audit.Create(&entity.AuditLogEntry{
			UserID:      actor.ID,
			Username:    actor.Name,
			Action:      entity.AuditActionSaleDelete,
			Description: fmt.Sprintf("Sale %s voided and stock restored", sale.InvoiceNumber),
			EntityIDs:   []string{saleID, sale.LocationID},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
