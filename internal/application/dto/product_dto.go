package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	VATRate     decimal.Decimal `json:"vat_rate"` // banda: 0, 5.5, 10, 20
	Unit        string          `json:"unit,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name        string              `json:"name,omitempty"`
	Description string              `json:"description,omitempty"`
	Price       decimal.NullDecimal `json:"price"`
	VATRate     decimal.NullDecimal `json:"vat_rate"`
	Unit        string              `json:"unit,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Unit        string          `json:"unit,omitempty"`
}
