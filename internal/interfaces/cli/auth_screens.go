package cli

import (
	"context"
	"errors"

	"github.com/jhoicas/comanda-client/internal/application/auth"
	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain"
)

// authStack pantallas públicas: login y registro.
func (a *App) authStack(ctx context.Context) error {
	for {
		a.term.Println("\n== Bienvenido ==")
		a.term.Println("1) Iniciar sesión")
		a.term.Println("2) Crear cuenta")
		a.term.Println("0) Salir")
		choice, err := a.term.Prompt(ctx, "Opción")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			err = a.signIn(ctx)
		case "2":
			err = a.signUp(ctx)
		case "0":
			return ErrQuit
		default:
			a.term.Println("Opción inválida.")
		}
		if err != nil {
			return err
		}
		if a.sessionChanged() {
			return errStackChanged
		}
	}
}

func (a *App) signIn(ctx context.Context) error {
	a.term.Println("\n== Iniciar sesión ==")
	email, err := a.term.Prompt(ctx, "Email")
	if err != nil {
		return err
	}
	password, err := a.term.Prompt(ctx, "Contraseña")
	if err != nil {
		return err
	}
	_, err = a.deps.Auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	a.showAuthError(err, auth.MsgLoginFailed)
	return nil
}

func (a *App) signUp(ctx context.Context) error {
	a.term.Println("\n== Crear cuenta ==")
	name, err := a.term.Prompt(ctx, "Nombre")
	if err != nil {
		return err
	}
	email, err := a.term.Prompt(ctx, "Email")
	if err != nil {
		return err
	}
	password, err := a.term.Prompt(ctx, "Contraseña")
	if err != nil {
		return err
	}
	_, err = a.deps.Auth.Register(ctx, dto.RegisterRequest{Name: name, Email: email, Password: password})
	a.showAuthError(err, auth.MsgRegisterFailed)
	return nil
}

func (a *App) showAuthError(err error, fallback string) {
	if err == nil {
		return
	}
	var authErr *auth.Error
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &authErr):
		a.term.Notify(usecase.MsgErrorTitle, authErr.Message)
	case errors.As(err, &valErr):
		a.term.Notify("Atención", valErr.Message)
	default:
		a.notifyError(err, fallback)
	}
}
