package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain"
)

func (a *App) productsScreen(ctx context.Context) error {
	for {
		list, err := a.deps.Products.List(ctx)
		if err != nil {
			a.notifyError(err, usecase.MsgListProducts)
			list = nil
		}
		a.term.Println("\n== Productos ==")
		a.term.Printf("%s", renderProducts(list, a.deps.Money))
		a.term.Println("N) Nuevo producto  E) Eliminar  V) Volver")
		choice, err := a.term.Prompt(ctx, "Opción")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "n":
			err = a.createProduct(ctx)
		case "e":
			raw, perr := a.term.Prompt(ctx, "Número del producto")
			if perr != nil {
				return perr
			}
			p, ok := pick(list, raw)
			if !ok {
				a.term.Println("Producto inválido.")
				break
			}
			if derr := a.deps.Products.Delete(ctx, p); derr != nil {
				if errors.Is(derr, domain.ErrCancelled) {
					break
				}
				a.notifyError(derr, usecase.MsgDeleteProduct)
			}
		case "v", "":
			return nil
		default:
			a.term.Println("Opción inválida.")
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) createProduct(ctx context.Context) error {
	a.term.Println("\n== Nuevo producto ==")
	name, err := a.term.Prompt(ctx, "Nombre")
	if err != nil {
		return err
	}
	price, err := a.term.Prompt(ctx, "Precio")
	if err != nil {
		return err
	}
	p, err := a.deps.Products.Create(ctx, name, price)
	if err != nil {
		a.notifyError(err, usecase.MsgCreateProduct)
		return nil
	}
	a.term.Printf("Producto %q creado (%s).\n", p.Name, a.deps.Money.Format(p.Price))
	return nil
}
