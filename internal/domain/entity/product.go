package entity

import "github.com/shopspring/decimal"

// Product entrada del catálogo (propiedad del servidor, solo lectura para la comanda).
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}
