package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/application/session"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/internal/infrastructure/tokenstore"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

const tokenKey = "userToken"

// brokenStore simula un almacén no disponible.
type brokenStore struct {
	mu    sync.Mutex
	calls int
}

var errStorage = errors.New("almacenamiento no disponible")

func (b *brokenStore) Get(context.Context, string) (string, bool, error) {
	b.count()
	return "", false, errStorage
}
func (b *brokenStore) Set(context.Context, string, string) error { b.count(); return errStorage }
func (b *brokenStore) Remove(context.Context, string) error      { b.count(); return errStorage }
func (b *brokenStore) count() {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
}

func newController(store ports.TokenStore, delay time.Duration) *session.Controller {
	return session.NewController(store, session.Config{TokenKey: tokenKey, SplashDelay: delay}, logger.Nop())
}

func TestBootstrap_IsLoadingSoloHastaLaPrimeraResolucion(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(ctx, tokenKey, "tok-1"))
	c := newController(store, 0)

	before := c.Session()
	assert.True(t, before.IsLoading)
	assert.Equal(t, entity.SessionBootstrapping, before.State())

	s := c.Bootstrap(ctx)
	assert.False(t, s.IsLoading)
	assert.Equal(t, "tok-1", s.Token)
	assert.Equal(t, entity.SessionAuthenticated, s.State())

	// ninguna transición posterior vuelve a IsLoading
	for _, next := range []entity.Session{
		c.SignOut(ctx),
		c.SignIn(ctx, "tok-2", "ana@bar.com"),
		c.Register(ctx, "tok-3", "bia@bar.com"),
		c.Bootstrap(ctx),
	} {
		assert.False(t, next.IsLoading)
	}
}

func TestBootstrap_SinTokenQuedaNoAutenticado(t *testing.T) {
	c := newController(tokenstore.NewMemory(), 0)

	s := c.Bootstrap(context.Background())

	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Token)
	assert.Equal(t, entity.SessionUnauthenticated, s.State())
}

func TestBootstrap_FalloDeLecturaEquivaleASinToken(t *testing.T) {
	c := newController(&brokenStore{}, 0)

	s := c.Bootstrap(context.Background())

	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Token)
}

func TestBootstrap_EsperaElSplash(t *testing.T) {
	c := newController(tokenstore.NewMemory(), 40*time.Millisecond)

	start := time.Now()
	c.Bootstrap(context.Background())

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestBootstrap_ContextoCanceladoResuelveIgual(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), tokenKey, "tok"))
	c := newController(store, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := c.Bootstrap(ctx)

	assert.False(t, s.IsLoading)
	assert.Equal(t, "tok", s.Token)
	select {
	case <-c.Ready():
	default:
		t.Fatal("Ready debe cerrarse tras el arranque")
	}
}

func TestBootstrap_LecturaUnicaConLlamadasConcurrentes(t *testing.T) {
	store := &brokenStore{}
	c := newController(store, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Bootstrap(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.calls, "el almacén se lee una sola vez")
}

func TestSignIn_PersisteElToken(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	c := newController(store, 0)
	c.Bootstrap(ctx)

	for _, tok := range []string{"tok-a", "tok-b", "tok-b"} {
		s := c.SignIn(ctx, tok, "ana@bar.com")
		assert.Equal(t, tok, s.Token)
		assert.Equal(t, "ana@bar.com", s.UserName)

		v, found, err := store.Get(ctx, tokenKey)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, tok, v)
	}
}

func TestSignIn_FalloDeEscrituraNoBloqueaLaSesion(t *testing.T) {
	c := newController(&brokenStore{}, 0)
	c.Bootstrap(context.Background())

	s := c.SignIn(context.Background(), "tok", "ana@bar.com")

	assert.True(t, s.Authenticated())
	assert.Equal(t, "ana@bar.com", s.UserName)
}

func TestSignOut_LimpiaLaSesionAunqueFalleElBorrado(t *testing.T) {
	ctx := context.Background()
	c := newController(&brokenStore{}, 0)
	c.Bootstrap(ctx)
	c.SignIn(ctx, "tok", "ana@bar.com")

	s := c.SignOut(ctx)

	assert.Empty(t, s.Token)
	assert.Empty(t, s.UserName)
	assert.False(t, s.IsLoading)
	assert.Equal(t, entity.SessionUnauthenticated, c.Session().State())
}

func TestSignOut_BorraElTokenPersistido(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	c := newController(store, 0)
	c.Bootstrap(ctx)
	c.SignIn(ctx, "tok", "ana@bar.com")

	c.SignOut(ctx)

	_, found, err := store.Get(ctx, tokenKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSubscribe_RecibeEstadoInicialYTransiciones(t *testing.T) {
	ctx := context.Background()
	c := newController(tokenstore.NewMemory(), 0)
	ch, cancel := c.Subscribe()
	defer cancel()

	assert.True(t, (<-ch).IsLoading, "primero llega el estado actual")

	c.Bootstrap(ctx)
	assert.Equal(t, entity.SessionUnauthenticated, (<-ch).State())

	c.SignIn(ctx, "tok", "ana@bar.com")
	assert.Equal(t, entity.SessionAuthenticated, (<-ch).State())
}

func TestSubscribe_ConsumidorLentoVeElUltimoEstado(t *testing.T) {
	ctx := context.Background()
	c := newController(tokenstore.NewMemory(), 0)
	ch, cancel := c.Subscribe()

	c.Bootstrap(ctx)
	c.SignIn(ctx, "tok-1", "ana@bar.com")
	c.SignIn(ctx, "tok-2", "ana@bar.com")

	assert.Equal(t, "tok-2", (<-ch).Token)

	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel cierra el canal")
	assert.NotPanics(t, cancel, "cancel es idempotente")
	assert.NotPanics(t, func() { c.SignOut(ctx) })
}
