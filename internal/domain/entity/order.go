package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceFee porcentaje de tasa de servicio de una comanda. Solo 0, 5 o 10.
type ServiceFee int

// Valores válidos de ServiceFee.
const (
	ServiceFeeNone ServiceFee = 0
	ServiceFee5    ServiceFee = 5
	ServiceFee10   ServiceFee = 10
)

// ServiceFeeOptions opciones en el orden en que se muestran en el selector.
var ServiceFeeOptions = []ServiceFee{ServiceFeeNone, ServiceFee5, ServiceFee10}

// Valid indica si el porcentaje pertenece al conjunto {0, 5, 10}.
func (f ServiceFee) Valid() bool {
	switch f {
	case ServiceFeeNone, ServiceFee5, ServiceFee10:
		return true
	}
	return false
}

// OrderLine línea de producto dentro de una comanda. Subtotal lo calcula el servidor.
type OrderLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// Order comanda (cuenta abierta de una mesa o cliente).
// El cliente nunca calcula Subtotal, ServiceFeeAmount ni Total; solo los muestra.
// Una vez construida no se modifica: cada recarga produce un valor nuevo.
type Order struct {
	ID               string
	Name             string
	CreatedAt        time.Time
	Lines            []OrderLine
	ServiceFee       ServiceFee
	ServiceFeeAmount decimal.Decimal
	Subtotal         decimal.Decimal
	Total            decimal.Decimal
	Closed           bool
}

// OrderSummary elemento del listado de comandas.
type OrderSummary struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Closed    bool
}
