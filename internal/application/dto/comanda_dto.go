package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de comanda que devuelve la API.
const (
	ComandaStatusOpen   = "aberta"
	ComandaStatusClosed = "fechada"
)

// CreateComandaRequest body de POST /comandas/.
type CreateComandaRequest struct {
	Name string `json:"name"`
}

// AddProductRequest body de POST /comandas/{id}/produtos.
type AddProductRequest struct {
	ProdutoID  string `json:"produtoId"`
	Quantidade int    `json:"quantidade"`
}

// ServiceFeeRequest body de PUT /comandas/{id}/taxa.
type ServiceFeeRequest struct {
	TaxaServicoPercentual int `json:"taxaServicoPercentual"`
}

// ComandaLineResponse línea de producto dentro de la comanda.
type ComandaLineResponse struct {
	Nome       string          `json:"nome"`
	Preco      decimal.Decimal `json:"preco"`
	Quantidade int             `json:"quantidade"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// ComandaResponse comanda completa (GET /comandas/{id}) o resumen (GET /comandas).
type ComandaResponse struct {
	ID                    string                `json:"_id"`
	Name                  string                `json:"name"`
	CreatedAt             time.Time             `json:"createdAt"`
	Status                string                `json:"status,omitempty"`
	Produtos              []ComandaLineResponse `json:"produtos"`
	TaxaServicoPercentual int                   `json:"taxaServicoPercentual"`
	TaxaServicoValor      decimal.Decimal       `json:"taxaServicoValor"`
	Subtotal              decimal.Decimal       `json:"subtotal"`
	Total                 decimal.Decimal       `json:"total"`
}
