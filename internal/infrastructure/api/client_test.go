package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/internal/infrastructure/api"
	"github.com/jhoicas/comanda-client/internal/infrastructure/tokenstore"
)

const tokenKey = "userToken"

type captured struct {
	method string
	path   string
	auth   string
	reqID  string
	body   map[string]any
}

// recorder servidor httptest que guarda la última petición y responde con status/body fijos.
type recorder struct {
	mu     sync.Mutex
	last   captured
	status int
	body   string
}

func (r *recorder) handler(w http.ResponseWriter, req *http.Request) {
	raw, _ := io.ReadAll(req.Body)
	c := captured{
		method: req.Method,
		path:   req.URL.Path,
		auth:   req.Header.Get("Authorization"),
		reqID:  req.Header.Get(api.RequestIDHeader),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &c.body)
	}
	r.mu.Lock()
	r.last = c
	status, body := r.status, r.body
	r.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (r *recorder) Last() captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func newClient(t *testing.T, rec *recorder, store *tokenstore.Memory) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(srv.Close)
	cfg := api.Config{BaseURL: srv.URL + "/", TokenKey: tokenKey}
	if store != nil {
		cfg.Tokens = store
	}
	c, err := api.New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_BaseURLInvalida(t *testing.T) {
	for _, raw := range []string{"", "comandas.local", "ftp://x.y"} {
		_, err := api.New(api.Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestAuthorize_ConTokenAgregaBearer(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), tokenKey, "abc123"))
	rec := &recorder{body: `[]`}
	c := newClient(t, rec, store)

	_, err := c.ListComandas(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", rec.Last().auth)
	assert.NotEmpty(t, rec.Last().reqID)
}

func TestAuthorize_SinTokenEnviaSinAutenticar(t *testing.T) {
	rec := &recorder{body: `[]`}
	c := newClient(t, rec, tokenstore.NewMemory())

	_, err := c.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rec.Last().auth)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disco no disponible")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("x") }
func (failingStore) Remove(context.Context, string) error      { return errors.New("x") }

func TestAuthorize_FalloDelAlmacenIgualEnvia(t *testing.T) {
	rec := &recorder{body: `[]`}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()
	c, err := api.New(api.Config{BaseURL: srv.URL, Tokens: failingStore{}, TokenKey: tokenKey})
	require.NoError(t, err)

	_, err = c.ListComandas(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/comandas", rec.Last().path)
	assert.Empty(t, rec.Last().auth)
}

func TestEndpoints_RutasYCuerpos(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{body: `{}`}
	c := newClient(t, rec, nil)

	require.NoError(t, c.AddProduct(ctx, "cmd-1", "prod-9", 1))
	last := rec.Last()
	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "/comandas/cmd-1/produtos", last.path)
	assert.Equal(t, map[string]any{"produtoId": "prod-9", "quantidade": float64(1)}, last.body)

	require.NoError(t, c.SetServiceFee(ctx, "cmd-1", 10))
	last = rec.Last()
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/comandas/cmd-1/taxa", last.path)
	assert.Equal(t, map[string]any{"taxaServicoPercentual": float64(10)}, last.body)

	require.NoError(t, c.CloseComanda(ctx, "cmd-1"))
	last = rec.Last()
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/comandas/cmd-1/fechar", last.path)

	require.NoError(t, c.DeleteProduct(ctx, "prod-9"))
	last = rec.Last()
	assert.Equal(t, http.MethodDelete, last.method)
	assert.Equal(t, "/products/prod-9", last.path)

	rec.body = `{"_id":"p1","name":"Suco","price":8.5}`
	p, err := c.CreateProduct(ctx, "Suco", decimal.RequireFromString("8.50"))
	require.NoError(t, err)
	last = rec.Last()
	assert.Equal(t, "/products", last.path)
	assert.Equal(t, map[string]any{"name": "Suco", "price": 8.5}, last.body)
	assert.Equal(t, "p1", p.ID)

	rec.body = `{"_id":"c9","name":"Mesa 9","createdAt":"2024-05-01T12:00:00Z","produtos":[]}`
	o, err := c.CreateComanda(ctx, "Mesa 9")
	require.NoError(t, err)
	assert.Equal(t, "/comandas/", rec.Last().path)
	assert.Equal(t, "c9", o.ID)
}

func TestGetComanda_MapeaComanda(t *testing.T) {
	rec := &recorder{body: `{
		"_id":"cmd-1","name":"Mesa 4","createdAt":"2024-05-01T12:00:00Z","status":"aberta",
		"produtos":[{"nome":"Café","preco":5,"quantidade":2,"subtotal":10}],
		"taxaServicoPercentual":10,"taxaServicoValor":1,"subtotal":10,"total":11
	}`}
	c := newClient(t, rec, nil)

	o, err := c.GetComanda(context.Background(), "cmd-1")

	require.NoError(t, err)
	assert.Equal(t, "/comandas/cmd-1", rec.Last().path)
	assert.Equal(t, "Mesa 4", o.Name)
	assert.False(t, o.Closed)
	assert.Equal(t, entity.ServiceFee(10), o.ServiceFee)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(11)))
}

func TestLogin_DevuelveToken(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		rec := &recorder{body: `{"token":"jwt-1"}`}
		c := newClient(t, rec, nil)

		token, err := c.Login(context.Background(), "ana@mesa.com", "secreto")

		require.NoError(t, err)
		assert.Equal(t, "jwt-1", token)
		assert.Equal(t, "/auth/login", rec.Last().path)
		assert.Equal(t, "ana@mesa.com", rec.Last().body["email"])
	})

	t.Run("error del servidor", func(t *testing.T) {
		rec := &recorder{status: http.StatusUnprocessableEntity, body: `{"error":"Senha inválida"}`}
		c := newClient(t, rec, nil)

		_, err := c.Login(context.Background(), "ana@mesa.com", "x")

		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Senha inválida", apiErr.RemoteMessage())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("2xx sin token", func(t *testing.T) {
		rec := &recorder{body: `{"error":"credenciais"}`}
		c := newClient(t, rec, nil)

		_, err := c.Login(context.Background(), "ana@mesa.com", "x")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestErrors_MapeoDeStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusInternalServerError, domain.ErrRemote},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			rec := &recorder{status: tt.status, body: `{"message":"falló"}`}
			c := newClient(t, rec, nil)

			_, err := c.GetComanda(context.Background(), "x")

			assert.ErrorIs(t, err, tt.want)
			assert.False(t, api.IsUnreachable(err))
		})
	}
}

func TestNewError_ConservaMensajeYTipo(t *testing.T) {
	err := api.NewError(http.StatusUnprocessableEntity, []byte(`{"error":"Senha ou email inválido"}`))

	assert.Equal(t, "Senha ou email inválido", err.Message)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bare := api.NewError(http.StatusBadGateway, nil)
	assert.Empty(t, bare.Message)
	assert.ErrorIs(t, bare, domain.ErrRemote)
}

func TestFalloDeTransporte_EsSinConexion(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := api.New(api.Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.ListComandas(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnreachable)
	assert.True(t, api.IsUnreachable(err))
}

func TestContextoCancelado_NoSeReportaSinConexion(t *testing.T) {
	rec := &recorder{body: `[]`}
	c := newClient(t, rec, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListComandas(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, api.IsUnreachable(err))
}
