package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body de POST /products. El backend espera price como número.
type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductResponse producto del catálogo tal como lo devuelve la API.
type ProductResponse struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
