package repository

import "github.com/jhoicas/Pdv-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia del catálogo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)

	CreateVariation(variation *entity.ProductVariation) error
	GetVariationByID(id string) (*entity.ProductVariation, error)
	ListVariations(productID string) ([]*entity.ProductVariation, error)
}
