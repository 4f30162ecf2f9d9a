package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// Catalog contrato del catálogo que necesita el handler.
type Catalog interface {
	ListProducts() ([]entity.Product, error)
	CreateProduct(name string, price decimal.Decimal) (entity.Product, error)
	DeleteProduct(id string) error
}

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	catalog Catalog
}

// NewProductHandler construye el handler.
func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List GET /products.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.catalog.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// Create POST /products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.Name == "" || in.Price <= 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "name y price son requeridos"})
	}
	p, err := h.catalog.CreateProduct(in.Name, decimal.NewFromFloat(in.Price))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
}

// Delete DELETE /products/:id.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AckResponse{Message: "producto eliminado"})
}

func toProductResponse(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price}
}
