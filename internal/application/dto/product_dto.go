package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name   string          `json:"product_name" validate:"required,max=200"`
	Amount decimal.Decimal `json:"product_amount"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID     string          `json:"product_id"`
	Name   string          `json:"product_name"`
	Amount decimal.Decimal `json:"product_amount"`
}
