package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login POST /auth/login. Una respuesta sin token (aunque sea 2xx) es un fallo de autenticación.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &Error{Status: http.StatusOK, Message: out.Error, kind: domain.ErrUnauthorized}
	}
	return out.Token, nil
}

// Register POST /auth/register.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var out dto.AuthResponse
	in := dto.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &Error{Status: http.StatusOK, Message: out.Error, kind: domain.ErrRemote}
	}
	return out.Token, nil
}

// ── Comandas ──────────────────────────────────────────────────────────────────

// ListComandas GET /comandas.
func (c *Client) ListComandas(ctx context.Context) ([]entity.OrderSummary, error) {
	var out []dto.ComandaResponse
	if err := c.do(ctx, http.MethodGet, "/comandas", nil, &out); err != nil {
		return nil, err
	}
	list := make([]entity.OrderSummary, 0, len(out))
	for _, r := range out {
		list = append(list, toOrderSummary(r))
	}
	return list, nil
}

// CreateComanda POST /comandas/.
func (c *Client) CreateComanda(ctx context.Context, name string) (*entity.Order, error) {
	var out dto.ComandaResponse
	if err := c.do(ctx, http.MethodPost, "/comandas/", dto.CreateComandaRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return toOrder(out), nil
}

// GetComanda GET /comandas/{id}.
func (c *Client) GetComanda(ctx context.Context, id string) (*entity.Order, error) {
	var out dto.ComandaResponse
	if err := c.do(ctx, http.MethodGet, comandaPath(id), nil, &out); err != nil {
		return nil, err
	}
	return toOrder(out), nil
}

// AddProduct POST /comandas/{id}/produtos. El cuerpo de la respuesta se ignora: el
// estado autoritativo se vuelve a leer con GetComanda.
func (c *Client) AddProduct(ctx context.Context, orderID, productID string, quantity int) error {
	in := dto.AddProductRequest{ProdutoID: productID, Quantidade: quantity}
	return c.do(ctx, http.MethodPost, comandaPath(orderID)+"/produtos", in, nil)
}

// SetServiceFee PUT /comandas/{id}/taxa.
func (c *Client) SetServiceFee(ctx context.Context, orderID string, fee entity.ServiceFee) error {
	in := dto.ServiceFeeRequest{TaxaServicoPercentual: int(fee)}
	return c.do(ctx, http.MethodPut, comandaPath(orderID)+"/taxa", in, nil)
}

// CloseComanda PUT /comandas/{id}/fechar.
func (c *Client) CloseComanda(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPut, comandaPath(orderID)+"/fechar", nil, nil)
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ListProducts GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var out []dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	list := make([]entity.Product, 0, len(out))
	for _, p := range out {
		list = append(list, toProduct(p))
	}
	return list, nil
}

// CreateProduct POST /products.
func (c *Client) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*entity.Product, error) {
	var out dto.ProductResponse
	in := dto.CreateProductRequest{Name: name, Price: price.InexactFloat64()}
	if err := c.do(ctx, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	p := toProduct(out)
	return &p, nil
}

// DeleteProduct DELETE /products/{id}.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func comandaPath(id string) string {
	return "/comandas/" + url.PathEscape(id)
}

// ── mapeo DTO → entidad ───────────────────────────────────────────────────────

func toOrder(r dto.ComandaResponse) *entity.Order {
	lines := make([]entity.OrderLine, 0, len(r.Produtos))
	for _, p := range r.Produtos {
		lines = append(lines, entity.OrderLine{
			Name:      p.Nome,
			UnitPrice: p.Preco,
			Quantity:  p.Quantidade,
			Subtotal:  p.Subtotal,
		})
	}
	return &entity.Order{
		ID:               r.ID,
		Name:             r.Name,
		CreatedAt:        r.CreatedAt,
		Lines:            lines,
		ServiceFee:       entity.ServiceFee(r.TaxaServicoPercentual),
		ServiceFeeAmount: r.TaxaServicoValor,
		Subtotal:         r.Subtotal,
		Total:            r.Total,
		Closed:           r.Status == dto.ComandaStatusClosed,
	}
}

func toOrderSummary(r dto.ComandaResponse) entity.OrderSummary {
	return entity.OrderSummary{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Closed:    r.Status == dto.ComandaStatusClosed,
	}
}

func toProduct(p dto.ProductResponse) entity.Product {
	return entity.Product{ID: p.ID, Name: p.Name, Price: p.Price}
}
