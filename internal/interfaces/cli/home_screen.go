package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/comanda-client/internal/application/usecase"
)

// appStack pantallas de un usuario autenticado. La lista de comandas se vuelve a pedir
// cada vez que la pantalla de inicio recupera el foco.
func (a *App) appStack(ctx context.Context) error {
	for {
		list, err := a.deps.Orders.List(ctx)
		if err != nil {
			a.notifyError(err, usecase.MsgListOrders)
			list = nil
		}
		a.term.Printf("%s", renderOrders(list))
		a.term.Println("N) Nueva comanda  P) Productos  S) Cerrar sesión  Q) Salir")
		choice, err := a.term.Prompt(ctx, "Opción o número de comanda")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "":
		case "n":
			err = a.createOrder(ctx)
		case "p":
			err = a.productsScreen(ctx)
		case "s":
			a.deps.Auth.Logout(ctx)
		case "q":
			return ErrQuit
		default:
			o, ok := pick(list, choice)
			if !ok {
				a.term.Println("Opción inválida.")
				break
			}
			err = a.orderScreen(ctx, o.ID)
		}
		if err != nil {
			return err
		}
		if a.sessionChanged() {
			return errStackChanged
		}
	}
}

func (a *App) createOrder(ctx context.Context) error {
	a.term.Println("\n== Nueva comanda ==")
	name, err := a.term.Prompt(ctx, "Nombre (mesa o cliente)")
	if err != nil {
		return err
	}
	o, err := a.deps.Orders.Create(ctx, name)
	if err != nil {
		a.notifyError(err, usecase.MsgCreateOrder)
		return nil
	}
	a.term.Printf("Comanda %q creada.\n", o.Name)
	return nil
}

// pick elemento elegido por su número (1..n).
func pick[T any](list []T, choice string) (T, bool) {
	var zero T
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(list) {
		return zero, false
	}
	return list[n-1], true
}
