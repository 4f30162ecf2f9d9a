// Package session contiene el controlador de la sesión de autenticación del dispositivo:
// arranque desde el token persistido, login, registro y logout.
//
// Estados: Bootstrapping (IsLoading) → Unauthenticated ⇄ Authenticated.
// La persistencia es de mejor esfuerzo: un fallo del almacén se registra y la transición
// en memoria se aplica igual.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

// Config parámetros del controlador.
type Config struct {
	TokenKey    string        // clave única del token en el almacén
	SplashDelay time.Duration // espera antes de leer el token al arrancar
}

// Controller dueño único de la sesión; los consumidores reciben el puntero y se
// suscriben a los cambios con Subscribe.
type Controller struct {
	store ports.TokenStore
	cfg   Config
	log   *logger.Logger

	mu      sync.Mutex
	state   entity.Session
	subs    map[int]chan entity.Session
	nextSub int

	bootOnce sync.Once
	ready    chan struct{}
}

// NewController crea la sesión en estado Bootstrapping (IsLoading = true).
func NewController(store ports.TokenStore, cfg Config, log *logger.Logger) *Controller {
	if cfg.TokenKey == "" {
		cfg.TokenKey = "userToken"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		store: store,
		cfg:   cfg,
		log:   log.Component("session"),
		state: entity.Session{IsLoading: true},
		subs:  make(map[int]chan entity.Session),
		ready: make(chan struct{}),
	}
}

// Session devuelve una copia del estado actual.
func (c *Controller) Session() entity.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready se cierra cuando el arranque resolvió el token persistido.
func (c *Controller) Ready() <-chan struct{} { return c.ready }

// Bootstrap ejecuta RETRIEVE_TOKEN una sola vez: espera SplashDelay, lee el almacén y
// deja IsLoading en false. Llamadas posteriores esperan la primera y devuelven el estado.
// Si ctx se cancela durante la espera, la lectura se hace de inmediato; el arranque
// siempre resuelve.
func (c *Controller) Bootstrap(ctx context.Context) entity.Session {
	c.bootOnce.Do(func() {
		defer close(c.ready)

		if c.cfg.SplashDelay > 0 {
			timer := time.NewTimer(c.cfg.SplashDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}

		token := ""
		if c.store != nil {
			v, found, err := c.store.Get(context.WithoutCancel(ctx), c.cfg.TokenKey)
			if err != nil {
				c.log.Warn().Err(err).Msg("leer token persistido; se continúa sin sesión")
			} else if found {
				token = v
			}
		}
		c.dispatch(action{kind: actionRetrieveToken, token: token})
		c.log.Info().Bool("authenticated", token != "").Msg("sesión resuelta")
	})
	<-c.ready
	return c.Session()
}

// SignIn LOGIN: persiste el token y marca la sesión como autenticada.
func (c *Controller) SignIn(ctx context.Context, token, userName string) entity.Session {
	c.persist(ctx, token)
	s := c.dispatch(action{kind: actionLogin, token: token, userName: userName})
	c.log.Info().Str("user", userName).Msg("sesión iniciada")
	return s
}

// Register REGISTER: mismo efecto que SignIn, tras un registro remoto exitoso.
func (c *Controller) Register(ctx context.Context, token, userName string) entity.Session {
	c.persist(ctx, token)
	s := c.dispatch(action{kind: actionRegister, token: token, userName: userName})
	c.log.Info().Str("user", userName).Msg("usuario registrado")
	return s
}

// SignOut LOGOUT: elimina el token persistido y limpia la sesión.
// La sesión en memoria queda sin token aunque el borrado falle.
func (c *Controller) SignOut(ctx context.Context) entity.Session {
	if c.store != nil {
		if err := c.store.Remove(ctx, c.cfg.TokenKey); err != nil {
			c.log.Warn().Err(err).Msg("borrar token persistido")
		}
	}
	s := c.dispatch(action{kind: actionLogout})
	c.log.Info().Msg("sesión cerrada")
	return s
}

// Subscribe entrega el estado actual y cada cambio posterior. Si el consumidor no lee
// a tiempo solo conserva el último estado. cancel libera la suscripción.
func (c *Controller) Subscribe() (<-chan entity.Session, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan entity.Session, 1)
	ch <- c.state
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (c *Controller) persist(ctx context.Context, token string) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, c.cfg.TokenKey, token); err != nil {
		c.log.Warn().Err(err).Msg("guardar token; la sesión sigue activa solo en memoria")
	}
}

// dispatch aplica la acción y publica el nuevo estado bajo el mismo lock, de modo que
// los suscriptores ven las transiciones en orden.
func (c *Controller) dispatch(a action) entity.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = reduce(c.state, a)
	for _, ch := range c.subs {
		select {
		case ch <- c.state:
		default:
			// reemplazar el valor pendiente por el más reciente
			select {
			case <-ch:
			default:
			}
			ch <- c.state
		}
	}
	return c.state
}
