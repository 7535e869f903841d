package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	CategoryID     string `json:"category_id,omitempty"`
	RequiresSerial bool   `json:"requires_serial"`
}

// CreateVariationRequest body para POST /api/products/:id/variations.
type CreateVariationRequest struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// ProductResponse producto con sus variaciones (si se cargaron).
type ProductResponse struct {
	ID             string              `json:"id"`
	SKU            string              `json:"sku"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	CategoryID     string              `json:"category_id,omitempty"`
	RequiresSerial bool                `json:"requires_serial"`
	Variations     []VariationResponse `json:"variations,omitempty"`
}

// VariationResponse variación vendible.
type VariationResponse struct {
	ID    string          `json:"id"`
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"` // warehouse | branch
	Address string `json:"address,omitempty"`
}

// LocationResponse bodega o sucursal.
type LocationResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// CustomerResponse cliente.
type CustomerResponse struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}
