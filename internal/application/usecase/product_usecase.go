package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

// Mensajes del catálogo.
const (
	MsgListProducts  = "No fue posible buscar los productos."
	MsgCreateProduct = "No fue posible crear el producto."
	MsgDeleteProduct = "No fue posible eliminar el producto."
)

// ProductUseCase casos de uso del catálogo visto desde el cliente: listar, crear y eliminar.
type ProductUseCase struct {
	catalog   ports.CatalogGateway
	confirmer ports.Confirmer
	log       *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(catalog ports.CatalogGateway, confirmer ports.Confirmer, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{catalog: catalog, confirmer: confirmer, log: log.Component("catalog")}
}

// List lista el catálogo completo.
func (uc *ProductUseCase) List(ctx context.Context) ([]entity.Product, error) {
	list, err := uc.catalog.ListProducts(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar productos")
		return nil, err
	}
	return list, nil
}

// Create crea un producto. price es el texto que escribió el usuario; acepta coma o punto
// como separador decimal y debe ser mayor que cero.
func (uc *ProductUseCase) Create(ctx context.Context, name, price string) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "Informe el nombre del producto.")
	}
	amount, err := ParsePrice(price)
	if err != nil {
		return nil, err
	}
	p, err := uc.catalog.CreateProduct(ctx, name, amount)
	if err != nil {
		uc.log.Error().Err(err).Str("name", name).Msg("crear producto")
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("price", amount.StringFixed(2)).Msg("producto creado")
	return p, nil
}

// Delete pide confirmación y elimina el producto. Si el usuario cancela devuelve
// domain.ErrCancelled sin llamar al servidor.
func (uc *ProductUseCase) Delete(ctx context.Context, p entity.Product) error {
	if uc.confirmer == nil {
		return fmt.Errorf("catalog: eliminar requiere confirmación")
	}
	ok, err := uc.confirmer.Confirm(ctx, "Eliminar producto", fmt.Sprintf("¿Desea eliminar %q?", p.Name))
	if err != nil || !ok {
		return domain.ErrCancelled
	}
	if err := uc.catalog.DeleteProduct(ctx, p.ID); err != nil {
		uc.log.Error().Err(err).Str("product_id", p.ID).Msg("eliminar producto")
		return err
	}
	uc.log.Info().Str("product_id", p.ID).Msg("producto eliminado")
	return nil
}

// ParsePrice convierte el precio tecleado ("7,50", "7.5", "12") a decimal positivo.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return decimal.Zero, domain.NewValidationError("price", "Informe el precio del producto.")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, domain.NewValidationError("price", "Precio inválido.")
	}
	return amount.Round(2), nil
}
