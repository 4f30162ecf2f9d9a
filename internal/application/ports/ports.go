package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// TokenStore puerto del almacén persistente clave-valor donde vive el token de sesión.
// Cualquier operación puede fallar; quien la invoca registra el error y una lectura
// fallida equivale a "no hay token".
type TokenStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// AuthGateway operaciones remotas de autenticación. Ambas devuelven el token emitido.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (string, error)
}

// OrderGateway operaciones remotas sobre comandas.
type OrderGateway interface {
	ListComandas(ctx context.Context) ([]entity.OrderSummary, error)
	CreateComanda(ctx context.Context, name string) (*entity.Order, error)
	GetComanda(ctx context.Context, id string) (*entity.Order, error)
	AddProduct(ctx context.Context, orderID, productID string, quantity int) error
	SetServiceFee(ctx context.Context, orderID string, fee entity.ServiceFee) error
	CloseComanda(ctx context.Context, orderID string) error
}

// CatalogGateway operaciones remotas sobre el catálogo de productos.
type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Notifier muestra un aviso al usuario (equivalente a una alerta de la app).
type Notifier interface {
	Notify(title, message string)
}

// Confirmer pide una confirmación de dos opciones (cancelar / confirmar).
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// ReceiptRenderer genera la representación imprimible de una comanda.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, order *entity.Order) ([]byte, error)
}
