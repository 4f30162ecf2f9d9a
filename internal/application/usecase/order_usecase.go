package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

// Mensajes de la pantalla de inicio.
const (
	MsgListOrders  = "No fue posible buscar las comandas."
	MsgCreateOrder = "No fue posible crear la comanda."
)

// OrderUseCase casos de uso de la lista de comandas: listar y abrir una nueva.
type OrderUseCase struct {
	orders ports.OrderGateway
	log    *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders ports.OrderGateway, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{orders: orders, log: log.Component("orders")}
}

// List devuelve las comandas en el orden del servidor.
func (uc *OrderUseCase) List(ctx context.Context) ([]entity.OrderSummary, error) {
	list, err := uc.orders.ListComandas(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar comandas")
		return nil, err
	}
	return list, nil
}

// Create abre una comanda con el nombre dado (sin espacios sobrantes, obligatorio).
func (uc *OrderUseCase) Create(ctx context.Context, name string) (*entity.Order, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "Informe el nombre de la comanda.")
	}
	o, err := uc.orders.CreateComanda(ctx, name)
	if err != nil {
		uc.log.Error().Err(err).Str("name", name).Msg("crear comanda")
		return nil, err
	}
	uc.log.Info().Str("order_id", o.ID).Msg("comanda creada")
	return o, nil
}
