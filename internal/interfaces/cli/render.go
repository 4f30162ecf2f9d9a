package cli

import (
	"fmt"
	"strings"

	"github.com/jhoicas/comanda-client/internal/application/order"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/money"
)

const timeLayout = "02/01/2006 15:04"

// renderOrders listado numerado de comandas.
func renderOrders(list []entity.OrderSummary) string {
	var b strings.Builder
	b.WriteString("\n== Comandas ==\n")
	if len(list) == 0 {
		b.WriteString("No hay comandas.\n")
	}
	for i, o := range list {
		status := ""
		if o.Closed {
			status = " (cerrada)"
		}
		fmt.Fprintf(&b, "%2d) %s%s  %s\n", i+1, o.Name, status, o.CreatedAt.Local().Format(timeLayout))
	}
	return b.String()
}

// renderProducts listado numerado del catálogo.
func renderProducts(list []entity.Product, f *money.Formatter) string {
	var b strings.Builder
	if len(list) == 0 {
		b.WriteString("No hay productos registrados.\n")
	}
	for i, p := range list {
		fmt.Fprintf(&b, "%2d) %s  %s\n", i+1, p.Name, f.Format(p.Price))
	}
	return b.String()
}

// renderFeeSelector opciones de tasa con la activa marcada.
func renderFeeSelector(active entity.ServiceFee, f *money.Formatter) string {
	parts := make([]string, 0, len(entity.ServiceFeeOptions))
	for _, opt := range entity.ServiceFeeOptions {
		mark := " "
		if opt == active {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", mark, f.Percent(int(opt))))
	}
	return strings.Join(parts, "  ")
}

// renderOrder detalle de la comanda: líneas, selector de tasa y totales.
func renderOrder(v order.View, f *money.Formatter) string {
	var b strings.Builder
	o := v.Order
	if o == nil {
		if v.Loading {
			return "\nCargando comanda...\n"
		}
		return "\nComanda no disponible.\n"
	}
	status := "abierta"
	if o.Closed {
		status = "cerrada"
	}
	fmt.Fprintf(&b, "\n== %s (%s) ==\n", o.Name, status)
	if len(o.Lines) == 0 {
		b.WriteString("Ningún producto agregado.\n")
	}
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "  %d x %s  %s = %s\n", l.Quantity, l.Name, f.Format(l.UnitPrice), f.Format(l.Subtotal))
	}
	fmt.Fprintf(&b, "Tasa de servicio: %s\n", renderFeeSelector(o.ServiceFee, f))
	fmt.Fprintf(&b, "Subtotal: %s\n", f.Format(o.Subtotal))
	fmt.Fprintf(&b, "Servicio: %s\n", f.Format(o.ServiceFeeAmount))
	fmt.Fprintf(&b, "Total:    %s\n", f.Format(o.Total))
	if v.Loading {
		b.WriteString("(actualizando...)\n")
	}
	return b.String()
}
