package http_test

import (
	"context"
	"net"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comanda-client/internal/application/auth"
	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/application/order"
	"github.com/jhoicas/comanda-client/internal/application/session"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/infrastructure/api"
	"github.com/jhoicas/comanda-client/internal/infrastructure/memory"
	"github.com/jhoicas/comanda-client/internal/infrastructure/tokenstore"
	apphttp "github.com/jhoicas/comanda-client/internal/interfaces/http"
)

type yes struct{}

func (yes) Confirm(context.Context, string, string) (bool, error) { return true, nil }

// startSandbox levanta el router sobre un puerto libre y devuelve la URL base.
func startSandbox(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	store := memory.NewStore()
	apphttp.Router(app, apphttp.RouterDeps{
		Users:    store,
		Catalog:  store,
		Comandas: store,
		JWT:      apphttp.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestSandbox_ClienteDePuntaAPunta(t *testing.T) {
	ctx := context.Background()
	baseURL := startSandbox(t)

	tokens := tokenstore.NewMemory()
	client, err := api.New(api.Config{BaseURL: baseURL, Tokens: tokens, TokenKey: "userToken"})
	require.NoError(t, err)

	sess := session.NewController(tokens, session.Config{TokenKey: "userToken"}, nil)
	require.False(t, sess.Bootstrap(ctx).Authenticated())

	// sin token el servidor rechaza las rutas protegidas
	_, err = client.ListComandas(ctx)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	authUC := auth.NewAuthUseCase(client, sess, nil)
	s, err := authUC.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ana@mesa.com", Password: "12345678"})
	require.NoError(t, err)
	require.True(t, s.Authenticated())

	catalog := usecase.NewProductUseCase(client, yes{}, nil)
	cafe, err := catalog.Create(ctx, "Café", "5,00")
	require.NoError(t, err)

	orders := usecase.NewOrderUseCase(client, nil)
	created, err := orders.Create(ctx, "Mesa 4")
	require.NoError(t, err)

	ctrl, err := order.NewController(order.Config{OrderID: created.ID}, order.Deps{
		Orders: client, Catalog: client, Confirmer: yes{},
	})
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.Load(ctx))
	v := ctrl.Snapshot()
	assert.Empty(t, v.Order.Lines)
	require.Len(t, v.Products, 1)

	require.NoError(t, ctrl.AddProduct(ctx, cafe.ID))
	require.NoError(t, ctrl.AddProduct(ctx, cafe.ID))
	require.NoError(t, ctrl.SetServiceFee(ctx, 10))

	v = ctrl.Snapshot()
	require.Len(t, v.Order.Lines, 1)
	assert.Equal(t, 2, v.Order.Lines[0].Quantity)
	assert.Equal(t, "11", v.Order.Total.String())

	require.NoError(t, ctrl.CloseOrder(ctx))
	<-ctrl.Done()

	list, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Closed)

	// logout: el token desaparece y el cliente vuelve a ir sin autenticar
	assert.False(t, authUC.Logout(ctx).Authenticated())
	_, err = client.ListProducts(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
