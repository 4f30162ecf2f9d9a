// Package api implementa el cliente HTTP del backend de comandas.
// Un único cliente ligado a una URL base; cada petición pasa por un hook previo al envío
// que lee el token del almacén y, si existe, agrega Authorization: Bearer <token>.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 1 << 20 // 1MiB

	// RequestIDHeader identifica cada petición en los logs del cliente y del servidor.
	RequestIDHeader = "X-Request-ID"
)

// Verificar en tiempo de compilación que Client implementa los puertos remotos.
var (
	_ ports.AuthGateway    = (*Client)(nil)
	_ ports.OrderGateway   = (*Client)(nil)
	_ ports.CatalogGateway = (*Client)(nil)
)

// Config configura el cliente.
type Config struct {
	BaseURL string
	// HTTPClient se usa para ejecutar las peticiones. Si es nil se crea uno con Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration
	// Tokens almacén del que el hook lee el token antes de cada envío. Nil = sin auth.
	Tokens   ports.TokenStore
	TokenKey string
	// RateLimit peticiones por segundo (0 = sin límite) y ráfaga permitida.
	RateLimit float64
	RateBurst int
	Logger    *logger.Logger
}

// Client adaptador HTTP del backend de comandas.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     ports.TokenStore
	tokenKey   string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New construye el cliente validando la URL base.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: BaseURL inválida %q", cfg.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: BaseURL debe usar http o https")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		tokenKey:   cfg.TokenKey,
		limiter:    limiter,
		log:        log.Component("api"),
	}, nil
}

// BaseURL devuelve la URL base normalizada.
func (c *Client) BaseURL() string { return c.baseURL }

// authorize es el hook previo al envío. La ausencia de token produce una petición
// sin autenticar; un fallo del almacén se registra y se trata igual que "sin token".
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, found, err := c.tokens.Get(ctx, c.tokenKey)
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.tokenKey).Msg("leer token antes del envío")
		return
	}
	if found && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do ejecuta method+path con in como body JSON (opcional) y decodifica la respuesta en out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: crear HTTP request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	c.authorize(ctx, req)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("api: esperar turno de envío: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: %s %s: %w", method, path, ctx.Err())
		}
		c.log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("sin respuesta del servidor")
		return fmt.Errorf("api: %s %s: %w: %v", method, path, domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: leer respuesta: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("petición completada")

	if resp.StatusCode >= http.StatusBadRequest {
		return NewError(resp.StatusCode, rawBody)
	}

	if out == nil || len(bytes.TrimSpace(rawBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("api: deserializar respuesta de %s %s: %w", method, path, err)
	}
	return nil
}

// IsUnreachable indica si el error corresponde a un fallo de transporte (sin respuesta).
func IsUnreachable(err error) bool {
	return errors.Is(err, domain.ErrUnreachable)
}
