package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// CatalogUseCase administración básica del catálogo: productos, variaciones,
// ubicaciones y clientes. Todas estas entidades son referenciadas por ventas y
// traslados pero nunca participan en la aritmética del ledger.
type CatalogUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
	}
}

// CreateProduct registra un producto del catálogo.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		CategoryID:     in.CategoryID,
		RequiresSerial: in.RequiresSerial,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateVariation registra una variación vendible de un producto.
func (uc *CatalogUseCase) CreateVariation(ctx context.Context, productID string, in dto.CreateVariationRequest) (*entity.ProductVariation, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	variation := &entity.ProductVariation{
		ID:        uuid.New().String(),
		ProductID: productID,
		SKU:       in.SKU,
		Name:      in.Name,
		Price:     in.Price,
		Cost:      in.Cost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.CreateVariation(variation); err != nil {
		return nil, err
	}
	return variation, nil
}

// GetProduct devuelve un producto con sus variaciones.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, []*entity.ProductVariation, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	variations, err := uc.productRepo.ListVariations(id)
	if err != nil {
		return nil, nil, err
	}
	return product, variations, nil
}

// ListProducts lista el catálogo.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}

// CreateLocation registra una bodega o sucursal.
func (uc *CatalogUseCase) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*entity.Location, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.LocationTypeWarehouse && in.Type != entity.LocationTypeBranch {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

// ListLocations lista bodegas y sucursales.
func (uc *CatalogUseCase) ListLocations(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	return uc.locationRepo.List(limit, offset)
}

// CreateCustomer registra un cliente.
func (uc *CatalogUseCase) CreateCustomer(ctx context.Context, in dto.CreateCustomerRequest) (*entity.Customer, error) {
	if in.Document == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Document:  in.Document,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers lista clientes.
func (uc *CatalogUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	return uc.customerRepo.List(limit, offset)
}
