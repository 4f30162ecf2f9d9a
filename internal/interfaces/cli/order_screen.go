package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jhoicas/comanda-client/internal/application/order"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// errLeave el usuario eligió volver a la lista desde el menú.
var errLeave = errors.New("cli: volver")

// orderScreen detalle de una comanda. El controlador vive lo que vive la pantalla.
func (a *App) orderScreen(ctx context.Context, id string) error {
	ctrl, err := order.NewController(
		order.Config{OrderID: id, MenuAnimation: a.cfg.MenuAnimation},
		order.Deps{
			Orders:    a.deps.OrderGateway,
			Catalog:   a.deps.CatalogGateway,
			Notifier:  a.term,
			Confirmer: a.term,
			Logger:    a.log,
		},
	)
	if err != nil {
		a.notifyError(err, usecase.MsgListOrders)
		return nil
	}
	defer ctrl.Close()

	_ = ctrl.Load(ctx)
	for {
		select {
		case <-ctrl.Done():
			a.term.Println("Comanda cerrada.")
			return nil
		default:
		}

		v := ctrl.Snapshot()
		a.term.Printf("%s", renderOrder(v, a.deps.Money))
		a.term.Println("A) Agregar producto  T) Tasa de servicio  M) Menú  R) Recargar  V) Volver")
		choice, err := a.term.Prompt(ctx, "Opción")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "a":
			err = a.pickProduct(ctx, ctrl)
		case "t":
			err = a.pickFee(ctx, ctrl)
		case "m":
			err = a.sideMenu(ctx, ctrl)
		case "r", "":
			_ = ctrl.Load(ctx)
		case "v":
			return nil
		default:
			a.term.Println("Opción inválida.")
		}
		switch {
		case errors.Is(err, errLeave):
			return nil
		case err != nil:
			return err
		}
	}
}

// pickProduct selector de productos: queda abierto hasta que se agrega uno o se cancela.
func (a *App) pickProduct(ctx context.Context, ctrl *order.Controller) error {
	ctrl.OpenPicker()
	for ctrl.Snapshot().PickerVisible {
		products := ctrl.Snapshot().Products
		if len(products) == 0 {
			a.term.Notify("Atención", "No hay productos disponibles.")
			ctrl.ClosePicker()
			return nil
		}
		a.term.Println("\n-- Seleccione un producto --")
		a.term.Printf("%s", renderProducts(products, a.deps.Money))
		raw, err := a.term.Prompt(ctx, "Producto (0 cancela)")
		if err != nil {
			ctrl.ClosePicker()
			return err
		}
		if raw == "0" || raw == "" {
			ctrl.ClosePicker()
			return nil
		}
		p, ok := pick(products, raw)
		if !ok {
			a.term.Println("Producto inválido.")
			continue
		}
		// un fallo ya fue notificado y deja el selector abierto
		_ = ctrl.AddProduct(ctx, p.ID)
	}
	return nil
}

func (a *App) pickFee(ctx context.Context, ctrl *order.Controller) error {
	current := entity.ServiceFeeNone
	if o := ctrl.Snapshot().Order; o != nil {
		current = o.ServiceFee
	}
	a.term.Printf("Tasa de servicio: %s\n", renderFeeSelector(current, a.deps.Money))
	raw, err := a.term.Prompt(ctx, "Nueva tasa (0, 5 o 10)")
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(strings.TrimSuffix(raw, "%"))
	if convErr != nil {
		a.notifyError(domain.ErrInvalidServiceFee, "")
		return nil
	}
	_ = ctrl.SetServiceFee(ctx, entity.ServiceFee(n))
	return nil
}

// sideMenu abre el menú lateral, espera la animación y ejecuta la opción elegida
// después de cerrarlo.
func (a *App) sideMenu(ctx context.Context, ctrl *order.Controller) error {
	if err := wait(ctx, ctrl.ToggleMenu(true)); err != nil {
		return err
	}
	a.term.Println("\n-- Menú --")
	a.term.Println("1) Cerrar comanda")
	a.term.Println("2) Exportar cuenta (PDF)")
	a.term.Println("3) Volver a comandas")
	a.term.Println("0) Cerrar menú")
	choice, err := a.term.Prompt(ctx, "Opción")
	if err != nil {
		return err
	}
	if err := wait(ctx, ctrl.ToggleMenu(false)); err != nil {
		return err
	}

	switch choice {
	case "1":
		// cancelar o fallar deja la comanda abierta; el error ya fue notificado
		_ = ctrl.CloseOrder(ctx)
	case "2":
		a.exportReceipt(ctx, ctrl.Snapshot().Order)
	case "3":
		return errLeave
	}
	return nil
}

func (a *App) exportReceipt(ctx context.Context, o *entity.Order) {
	if o == nil {
		a.term.Notify("Atención", "La comanda todavía no fue cargada.")
		return
	}
	if a.deps.Receipts == nil {
		a.term.Notify("Atención", "Exportación de cuentas no disponible.")
		return
	}
	raw, err := a.deps.Receipts.RenderReceipt(ctx, o)
	if err != nil {
		a.log.Error().Err(err).Str("order_id", o.ID).Msg("generar cuenta PDF")
		a.notifyError(err, "No fue posible generar la cuenta.")
		return
	}
	dir := a.cfg.ReceiptDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.notifyError(err, "No fue posible guardar la cuenta.")
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("comanda-%s.pdf", o.ID))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("guardar cuenta PDF")
		a.notifyError(err, "No fue posible guardar la cuenta.")
		return
	}
	a.log.Info().Str("path", path).Msg("cuenta exportada")
	a.term.Printf("Cuenta guardada en %s\n", path)
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
