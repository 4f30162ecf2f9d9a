package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comanda-client/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/comanda-client/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/comanda-client/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "comanda-sandbox-test"
	testExpMin    = 60
)

func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Users:    store,
		Catalog:  store,
		Comandas: store,
		JWT:      apphttp.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
	})
	return app, store
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "ana@mesa.com", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app, _ := buildTestApp(t)
	resp, body := doJSON(t, app, http.MethodGet, "/comandas", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app, _ := buildTestApp(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/products", "Bearer token.invalido.aqui", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	app, _ := buildTestApp(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/products", "Token abc", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "email": apphttp.GetEmail(c)})
	})

	resp, body := doJSON(t, app, http.MethodGet, "/me", bearer(t, testUserID), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "ana@mesa.com", body["email"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroLuegoLogin(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@mesa.com", "password": "12345678",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, body = doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@mesa.com", "password": "12345678",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ana@mesa.com", "password": "12345678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, _ = doJSON(t, app, http.MethodGet, "/comandas", "Bearer "+token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_LoginInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nadie@mesa.com", "password": "x",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "email o contraseña inválidos", body["error"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Comandas y productos
// ──────────────────────────────────────────────────────────────────────────────

func TestComandas_Flujo(t *testing.T) {
	app, _ := buildTestApp(t)
	auth := bearer(t, testUserID)

	resp, prod := doJSON(t, app, http.MethodPost, "/products", auth, map[string]any{"name": "Café", "price": 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID, _ := prod["_id"].(string)
	require.NotEmpty(t, productID)

	resp, cmd := doJSON(t, app, http.MethodPost, "/comandas/", auth, map[string]string{"name": "Mesa 4"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := cmd["_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "aberta", cmd["status"])

	resp, _ = doJSON(t, app, http.MethodPost, "/comandas/"+id+"/produtos", auth, map[string]any{"produtoId": productID, "quantidade": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/comandas/"+id+"/taxa", auth, map[string]any{"taxaServicoPercentual": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/comandas/"+id+"/taxa", auth, map[string]any{"taxaServicoPercentual": 7})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, got := doJSON(t, app, http.MethodGet, "/comandas/"+id, auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 10, got["taxaServicoPercentual"])
	// decimal se serializa como número o como string según MarshalJSONWithoutQuotes
	assert.Equal(t, "10", fmt.Sprint(got["subtotal"]))
	assert.Equal(t, "1", fmt.Sprint(got["taxaServicoValor"]))
	assert.Equal(t, "11", fmt.Sprint(got["total"]))

	resp, _ = doJSON(t, app, http.MethodPut, "/comandas/"+id+"/fechar", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/comandas/"+id+"/produtos", auth, map[string]any{"produtoId": productID, "quantidade": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/comandas/"+id, bearer(t, "otro-usuario"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/products/"+productID, auth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodDelete, "/products/"+productID, auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
