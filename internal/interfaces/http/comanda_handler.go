package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// Comandas contrato de comandas que necesita el handler. owner es el usuario del token.
type Comandas interface {
	ListComandas(owner string) ([]entity.Order, error)
	CreateComanda(owner, name string) (*entity.Order, error)
	GetComanda(owner, id string) (*entity.Order, error)
	AddProduct(owner, id, productID string, quantity int) (*entity.Order, error)
	SetServiceFee(owner, id string, fee entity.ServiceFee) (*entity.Order, error)
	CloseComanda(owner, id string) error
}

// ComandaHandler maneja las peticiones HTTP de comandas (protegido).
type ComandaHandler struct {
	comandas Comandas
}

// NewComandaHandler construye el handler.
func NewComandaHandler(comandas Comandas) *ComandaHandler {
	return &ComandaHandler{comandas: comandas}
}

// List GET /comandas. Devuelve resúmenes sin líneas.
func (h *ComandaHandler) List(c *fiber.Ctx) error {
	list, err := h.comandas.ListComandas(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ComandaResponse, 0, len(list))
	for i := range list {
		r := toComandaResponse(&list[i])
		r.Produtos = nil
		out = append(out, r)
	}
	return c.JSON(out)
}

// Create POST /comandas/.
func (h *ComandaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateComandaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	o, err := h.comandas.CreateComanda(GetUserID(c), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toComandaResponse(o))
}

// GetByID GET /comandas/:id.
func (h *ComandaHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.comandas.GetComanda(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toComandaResponse(o))
}

// AddProduct POST /comandas/:id/produtos.
func (h *ComandaHandler) AddProduct(c *fiber.Ctx) error {
	var in dto.AddProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.ProdutoID == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "produtoId es requerido"})
	}
	o, err := h.comandas.AddProduct(GetUserID(c), c.Params("id"), in.ProdutoID, in.Quantidade)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toComandaResponse(o))
}

// SetServiceFee PUT /comandas/:id/taxa.
func (h *ComandaHandler) SetServiceFee(c *fiber.Ctx) error {
	var in dto.ServiceFeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	o, err := h.comandas.SetServiceFee(GetUserID(c), c.Params("id"), entity.ServiceFee(in.TaxaServicoPercentual))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toComandaResponse(o))
}

// Close PUT /comandas/:id/fechar.
func (h *ComandaHandler) Close(c *fiber.Ctx) error {
	if err := h.comandas.CloseComanda(GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AckResponse{Message: "comanda cerrada"})
}

func toComandaResponse(o *entity.Order) dto.ComandaResponse {
	lines := make([]dto.ComandaLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.ComandaLineResponse{
			Nome:       l.Name,
			Preco:      l.UnitPrice,
			Quantidade: l.Quantity,
			Subtotal:   l.Subtotal,
		})
	}
	status := dto.ComandaStatusOpen
	if o.Closed {
		status = dto.ComandaStatusClosed
	}
	return dto.ComandaResponse{
		ID:                    o.ID,
		Name:                  o.Name,
		CreatedAt:             o.CreatedAt,
		Status:                status,
		Produtos:              lines,
		TaxaServicoPercentual: int(o.ServiceFee),
		TaxaServicoValor:      o.ServiceFeeAmount,
		Subtotal:              o.Subtotal,
		Total:                 o.Total,
	}
}
