// Package cli implementa las pantallas de terminal: splash, login, registro, comandas,
// detalle de comanda y catálogo. Cambia entre el stack de autenticación y el de la
// aplicación según los cambios publicados por la sesión.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/comanda-client/internal/application/auth"
	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/application/session"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/logger"
	"github.com/jhoicas/comanda-client/pkg/money"
)

// Deps colaboradores de las pantallas.
type Deps struct {
	Session  *session.Controller
	Auth     *auth.AuthUseCase
	Orders   *usecase.OrderUseCase
	Products *usecase.ProductUseCase
	// Gateways usados por el controlador de detalle de cada comanda.
	OrderGateway   ports.OrderGateway
	CatalogGateway ports.CatalogGateway
	Receipts       ports.ReceiptRenderer
	Money          *money.Formatter
	Logger         *logger.Logger
}

// Config parámetros de presentación.
type Config struct {
	AppName       string
	MenuAnimation time.Duration
	ReceiptDir    string
}

// App raíz de navegación.
type App struct {
	deps Deps
	cfg  Config
	term *Terminal
	log  *logger.Logger

	updates <-chan entity.Session
	current entity.Session
}

// NewApp construye la aplicación de terminal.
func NewApp(term *Terminal, cfg Config, deps Deps) *App {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	if deps.Money == nil {
		deps.Money = money.MustFormatter("pt-BR", "BRL")
	}
	if cfg.AppName == "" {
		cfg.AppName = "Comanda"
	}
	return &App{deps: deps, cfg: cfg, term: term, log: log.Component("cli")}
}

// Run muestra el splash mientras se resuelve la sesión y luego alterna entre los stacks
// hasta que el usuario sale o se cancela ctx.
func (a *App) Run(ctx context.Context) error {
	updates, cancel := a.deps.Session.Subscribe()
	defer cancel()
	a.updates = updates

	a.term.Printf("\n%s\n", a.cfg.AppName)
	a.term.Println("Cargando...")
	a.current = a.deps.Session.Bootstrap(ctx)
	a.sessionChanged()

	for {
		var err error
		if a.current.Authenticated() {
			err = a.appStack(ctx)
		} else {
			err = a.authStack(ctx)
		}
		switch {
		case errors.Is(err, ErrQuit), errors.Is(err, context.Canceled):
			a.term.Println("Hasta luego.")
			return nil
		case errors.Is(err, errStackChanged):
			continue
		case err != nil:
			return err
		}
	}
}

// errStackChanged la sesión cambió de estado: hay que mostrar el otro stack.
var errStackChanged = errors.New("cli: cambio de stack")

// sessionChanged consume las publicaciones pendientes de la sesión e indica si cambió
// el estado de autenticación respecto al stack visible.
func (a *App) sessionChanged() bool {
	before := a.current.Authenticated()
	for {
		select {
		case s, ok := <-a.updates:
			if !ok {
				return false
			}
			a.current = s
		default:
			return a.current.Authenticated() != before
		}
	}
}

// notifyError muestra el error como alerta usando el mensaje de usuario.
func (a *App) notifyError(err error, fallback string) {
	a.term.Notify(usecase.MsgErrorTitle, usecase.UserMessage(err, fallback))
}
