// Package inventorytest provee dobles en memoria de los puertos de
// persistencia para los tests de casos de uso: mismo contrato que los
// adaptadores de PostgreSQL, incluido el rollback todo-o-nada del TxRunner.
package inventorytest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Store es el estado en memoria compartido por todos los repos fake.
type Store struct {
	StockLevels map[string]*entity.StockLevel // key: variationID|locationID
	Movements   []*entity.StockMovement
	Units       map[string]*entity.SerializedUnit
	UnitMovs    []*entity.UnitMovement
	Sales       map[string]*entity.Sale
	Transfers   map[string]*entity.Transfer
	Audit       []*entity.AuditLogEntry
	Products    map[string]*entity.Product
	Variations  map[string]*entity.ProductVariation
	Locations   map[string]*entity.Location
	Customers   map[string]*entity.Customer
	Users       map[string]*entity.User
	// Contadores diarios de numeración (key: yymmdd).
	SaleSeqs     map[string]int
	TransferSeqs map[string]int
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		StockLevels: map[string]*entity.StockLevel{},
		Units:       map[string]*entity.SerializedUnit{},
		Sales:       map[string]*entity.Sale{},
		Transfers:   map[string]*entity.Transfer{},
		Products:    map[string]*entity.Product{},
		Variations:  map[string]*entity.ProductVariation{},
		Locations:   map[string]*entity.Location{},
		Customers:   map[string]*entity.Customer{},
		Users:       map[string]*entity.User{},

		SaleSeqs:     map[string]int{},
		TransferSeqs: map[string]int{},
	}
}

func stockKey(variationID, locationID string) string {
	return variationID + "|" + locationID
}

// SeedStock fija el stock de una variación en una ubicación con su movimiento
// de ajuste inicial (el diario reconcilia desde el arranque).
func (s *Store) SeedStock(variationID, locationID string, qty int64) {
	q := decimal.NewFromInt(qty)
	s.StockLevels[stockKey(variationID, locationID)] = &entity.StockLevel{
		VariationID:       variationID,
		LocationID:        locationID,
		QuantityAvailable: q,
	}
	s.Movements = append(s.Movements, &entity.StockMovement{
		ID:            uuid.New().String(),
		VariationID:   variationID,
		LocationID:    locationID,
		Quantity:      q,
		ReferenceType: entity.ReferenceTypeAdjustment,
		ReferenceID:   "seed-" + variationID + "-" + locationID,
		CreatedAt:     time.Now(),
	})
}

// StockQty devuelve la cantidad disponible actual (cero si no hay fila).
func (s *Store) StockQty(variationID, locationID string) decimal.Decimal {
	if lvl, ok := s.StockLevels[stockKey(variationID, locationID)]; ok {
		return lvl.QuantityAvailable
	}
	return decimal.Zero
}

func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.StockLevels {
		cp := *v
		c.StockLevels[k] = &cp
	}
	for _, m := range s.Movements {
		cp := *m
		c.Movements = append(c.Movements, &cp)
	}
	for k, v := range s.Units {
		cp := *v
		c.Units[k] = &cp
	}
	for _, m := range s.UnitMovs {
		cp := *m
		c.UnitMovs = append(c.UnitMovs, &cp)
	}
	for k, v := range s.Sales {
		cp := *v
		cp.Items = append([]*entity.SaleItem(nil), v.Items...)
		cp.Payments = append([]*entity.Payment(nil), v.Payments...)
		c.Sales[k] = &cp
	}
	for k, v := range s.Transfers {
		cp := *v
		cp.Items = nil
		for _, it := range v.Items {
			itc := *it
			cp.Items = append(cp.Items, &itc)
		}
		c.Transfers[k] = &cp
	}
	for _, a := range s.Audit {
		cp := *a
		c.Audit = append(c.Audit, &cp)
	}
	for k, v := range s.Products {
		cp := *v
		c.Products[k] = &cp
	}
	for k, v := range s.Variations {
		cp := *v
		c.Variations[k] = &cp
	}
	for k, v := range s.Locations {
		cp := *v
		c.Locations[k] = &cp
	}
	for k, v := range s.Customers {
		cp := *v
		c.Customers[k] = &cp
	}
	for k, v := range s.Users {
		cp := *v
		c.Users[k] = &cp
	}
	for k, v := range s.SaleSeqs {
		c.SaleSeqs[k] = v
	}
	for k, v := range s.TransferSeqs {
		c.TransferSeqs[k] = v
	}
	return c
}

func (s *Store) restore(from *Store) {
	s.StockLevels = from.StockLevels
	s.Movements = from.Movements
	s.Units = from.Units
	s.UnitMovs = from.UnitMovs
	s.Sales = from.Sales
	s.Transfers = from.Transfers
	s.Audit = from.Audit
	s.Products = from.Products
	s.Variations = from.Variations
	s.Locations = from.Locations
	s.Customers = from.Customers
	s.Users = from.Users
	s.SaleSeqs = from.SaleSeqs
	s.TransferSeqs = from.TransferSeqs
}

// Repos devuelve el conjunto de repos fake atados al store.
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Stock:     &stockLevelRepo{s},
		Movements: &stockMovementRepo{s},
		Units:     &serializedUnitRepo{s},
		UnitMovs:  &unitMovementRepo{s},
		Sales:     &saleRepo{s},
		Transfers: &transferRepo{s},
		Audit:     &auditLogRepo{s},
	}
}

// TxRunner ejecuta fn sobre el store; si fn falla, restaura el snapshot previo
// (misma semántica todo-o-nada que la transacción real).
type TxRunner struct {
	Store *Store
}

// Run implementa inventory.TxRunner.
func (t *TxRunner) Run(ctx context.Context, fn func(r inventory.TxRepos) error) error {
	snapshot := t.Store.clone()
	if err := fn(t.Store.Repos()); err != nil {
		t.Store.restore(snapshot)
		return err
	}
	return nil
}

// ── StockLevelRepository ─────────────────────────────────────────────────────

type stockLevelRepo struct{ s *Store }

func (r *stockLevelRepo) Get(variationID, locationID string) (*entity.StockLevel, error) {
	if lvl, ok := r.s.StockLevels[stockKey(variationID, locationID)]; ok {
		cp := *lvl
		return &cp, nil
	}
	return &entity.StockLevel{VariationID: variationID, LocationID: locationID, QuantityAvailable: decimal.Zero}, nil
}

// GetForUpdate materializa la fila en cero si no existe, igual que el
// adaptador de PostgreSQL (insertar antes de bloquear).
func (r *stockLevelRepo) GetForUpdate(variationID, locationID string) (*entity.StockLevel, error) {
	if _, ok := r.s.StockLevels[stockKey(variationID, locationID)]; !ok {
		r.s.StockLevels[stockKey(variationID, locationID)] = &entity.StockLevel{
			VariationID: variationID, LocationID: locationID, QuantityAvailable: decimal.Zero,
		}
	}
	cp := *r.s.StockLevels[stockKey(variationID, locationID)]
	return &cp, nil
}

func (r *stockLevelRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.s.StockLevels[stockKey(level.VariationID, level.LocationID)] = &cp
	return nil
}

func (r *stockLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, lvl := range r.s.StockLevels {
		if lvl.LocationID == locationID {
			out = append(out, lvl)
		}
	}
	return out, nil
}

func (r *stockLevelRepo) ListAll() ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, lvl := range r.s.StockLevels {
		out = append(out, lvl)
	}
	return out, nil
}

// ── StockMovementRepository ──────────────────────────────────────────────────

type stockMovementRepo struct{ s *Store }

func (r *stockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	cp := *movement
	r.s.Movements = append(r.s.Movements, &cp)
	return nil
}

func (r *stockMovementRepo) ExistsByReference(referenceType, referenceID string) (bool, error) {
	for _, m := range r.s.Movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stockMovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stockMovementRepo) ListByVariation(variationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.VariationID == variationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stockMovementRepo) ListAll() ([]*entity.StockMovement, error) {
	return append([]*entity.StockMovement(nil), r.s.Movements...), nil
}

// ── SerializedUnitRepository ─────────────────────────────────────────────────

type serializedUnitRepo struct{ s *Store }

func (r *serializedUnitRepo) Create(unit *entity.SerializedUnit) error {
	if unit.ID == "" {
		unit.ID = uuid.New().String()
	}
	for _, u := range r.s.Units {
		if u.SerialNumber == unit.SerialNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *unit
	r.s.Units[unit.ID] = &cp
	return nil
}

func (r *serializedUnitRepo) GetByID(id string) (*entity.SerializedUnit, error) {
	return r.GetByIDForUpdate(id)
}

func (r *serializedUnitRepo) GetByIDForUpdate(id string) (*entity.SerializedUnit, error) {
	if u, ok := r.s.Units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *serializedUnitRepo) GetBySerialNumber(serial string) (*entity.SerializedUnit, error) {
	for _, u := range r.s.Units {
		if u.SerialNumber == serial {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *serializedUnitRepo) Update(unit *entity.SerializedUnit) error {
	if _, ok := r.s.Units[unit.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *unit
	r.s.Units[unit.ID] = &cp
	return nil
}

func (r *serializedUnitRepo) ListByLocation(locationID, status string, limit, offset int) ([]*entity.SerializedUnit, error) {
	var out []*entity.SerializedUnit
	for _, u := range r.s.Units {
		if u.CurrentLocationID == locationID && (status == "" || u.Status == status) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *serializedUnitRepo) ListBySale(saleID string) ([]*entity.SerializedUnit, error) {
	var out []*entity.SerializedUnit
	for _, u := range r.s.Units {
		if u.SaleID == saleID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── UnitMovementRepository ───────────────────────────────────────────────────

type unitMovementRepo struct{ s *Store }

func (r *unitMovementRepo) Create(movement *entity.UnitMovement) error {
	if movement.SerializedUnitID == "" {
		return domain.ErrInvalidInput
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	cp := *movement
	r.s.UnitMovs = append(r.s.UnitMovs, &cp)
	return nil
}

func (r *unitMovementRepo) ListByUnit(serializedUnitID string, limit, offset int) ([]*entity.UnitMovement, error) {
	var out []*entity.UnitMovement
	for _, m := range r.s.UnitMovs {
		if m.SerializedUnitID == serializedUnitID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *unitMovementRepo) ListByReference(referenceType, referenceID string) ([]*entity.UnitMovement, error) {
	var out []*entity.UnitMovement
	for _, m := range r.s.UnitMovs {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── SaleRepository ───────────────────────────────────────────────────────────

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	cp := *sale
	cp.Items = nil
	cp.Payments = nil
	r.s.Sales[sale.ID] = &cp
	return nil
}

func (r *saleRepo) CreateItem(item *entity.SaleItem) error {
	sale, ok := r.s.Sales[item.SaleID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *item
	sale.Items = append(sale.Items, &cp)
	return nil
}

func (r *saleRepo) CreatePayment(payment *entity.Payment) error {
	sale, ok := r.s.Sales[payment.SaleID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *payment
	sale.Payments = append(sale.Payments, &cp)
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.GetByIDForUpdate(id)
}

func (r *saleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	if sale, ok := r.s.Sales[id]; ok {
		cp := *sale
		return &cp, nil
	}
	return nil, nil
}

func (r *saleRepo) UpdateStatus(id, status, voidedBy string, voidedAt time.Time) error {
	sale, ok := r.s.Sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Status = status
	sale.VoidedBy = voidedBy
	t := voidedAt
	sale.VoidedAt = &t
	sale.UpdatedAt = voidedAt
	return nil
}

func (r *saleRepo) NextSeqForDay(day time.Time) (int, error) {
	key := day.Format("060102")
	r.s.SaleSeqs[key]++
	return r.s.SaleSeqs[key], nil
}

func (r *saleRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.Sales {
		if sale.LocationID == locationID {
			out = append(out, sale)
		}
	}
	return out, nil
}

// ── TransferRepository ───────────────────────────────────────────────────────

type transferRepo struct{ s *Store }

func (r *transferRepo) Create(transfer *entity.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	cp := *transfer
	cp.Items = nil
	r.s.Transfers[transfer.ID] = &cp
	return nil
}

func (r *transferRepo) CreateItem(item *entity.TransferItem) error {
	transfer, ok := r.s.Transfers[item.TransferID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *item
	transfer.Items = append(transfer.Items, &cp)
	return nil
}

func (r *transferRepo) GetByID(id string) (*entity.Transfer, error) {
	return r.GetByIDForUpdate(id)
}

func (r *transferRepo) GetByIDForUpdate(id string) (*entity.Transfer, error) {
	transfer, ok := r.s.Transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *transfer
	cp.Items = nil
	for _, it := range transfer.Items {
		itc := *it
		cp.Items = append(cp.Items, &itc)
	}
	return &cp, nil
}

func (r *transferRepo) Update(transfer *entity.Transfer) error {
	existing, ok := r.s.Transfers[transfer.ID]
	if !ok {
		return domain.ErrNotFound
	}
	items := existing.Items
	cp := *transfer
	cp.Items = items
	r.s.Transfers[transfer.ID] = &cp
	return nil
}

func (r *transferRepo) UpdateItem(item *entity.TransferItem) error {
	transfer, ok := r.s.Transfers[item.TransferID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, it := range transfer.Items {
		if it.ID == item.ID {
			cp := *item
			transfer.Items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *transferRepo) NextSeqForDay(day time.Time) (int, error) {
	key := day.Format("060102")
	r.s.TransferSeqs[key]++
	return r.s.TransferSeqs[key], nil
}

func (r *transferRepo) ListByStatus(status string, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, transfer := range r.s.Transfers {
		if transfer.Status == status {
			out = append(out, transfer)
		}
	}
	return out, nil
}

func (r *transferRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, transfer := range r.s.Transfers {
		if transfer.FromLocationID == locationID || transfer.ToLocationID == locationID {
			out = append(out, transfer)
		}
	}
	return out, nil
}

// ── AuditLogRepository ───────────────────────────────────────────────────────

type auditLogRepo struct{ s *Store }

func (r *auditLogRepo) Create(entry *entity.AuditLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	cp := *entry
	r.s.Audit = append(r.s.Audit, &cp)
	return nil
}

func (r *auditLogRepo) List(from, to *time.Time, limit, offset int) ([]*entity.AuditLogEntry, error) {
	return append([]*entity.AuditLogEntry(nil), r.s.Audit...), nil
}

func (r *auditLogRepo) ListByUser(userID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	for _, e := range r.s.Audit {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── Repos de catálogo (fuera de la tx) ───────────────────────────────────────

// ProductRepo fake del catálogo.
type ProductRepo struct{ S *Store }

func (r *ProductRepo) Create(product *entity.Product) error {
	cp := *product
	r.S.Products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.S.Products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.S.Products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	cp := *product
	r.S.Products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.S.Products {
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) CreateVariation(variation *entity.ProductVariation) error {
	cp := *variation
	r.S.Variations[variation.ID] = &cp
	return nil
}

func (r *ProductRepo) GetVariationByID(id string) (*entity.ProductVariation, error) {
	if v, ok := r.S.Variations[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductRepo) ListVariations(productID string) ([]*entity.ProductVariation, error) {
	var out []*entity.ProductVariation
	for _, v := range r.S.Variations {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

// LocationRepo fake de ubicaciones.
type LocationRepo struct{ S *Store }

func (r *LocationRepo) Create(location *entity.Location) error {
	cp := *location
	r.S.Locations[location.ID] = &cp
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	if l, ok := r.S.Locations[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.S.Locations {
		out = append(out, l)
	}
	return out, nil
}

// CustomerRepo fake de clientes.
type CustomerRepo struct{ S *Store }

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	cp := *customer
	r.S.Customers[customer.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.S.Customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.S.Customers {
		out = append(out, c)
	}
	return out, nil
}

// UserRepo fake de usuarios.
type UserRepo struct{ S *Store }

func (r *UserRepo) Create(user *entity.User) error {
	cp := *user
	r.S.Users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.S.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.S.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
