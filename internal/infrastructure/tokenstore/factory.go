package tokenstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/pkg/config"
)

// Open construye el backend elegido en la configuración.
// El closer devuelto siempre es invocable (no-op si el backend no mantiene conexiones).
// Solo falla por configuración inválida; la disponibilidad del backend se descubre al usarlo.
func Open(_ context.Context, cfg config.Config) (ports.TokenStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Token.Store {
	case config.TokenStoreMemory:
		return NewMemory(), noop, nil
	case config.TokenStoreFile:
		return NewFile(cfg.Token.Dir), noop, nil
	case config.TokenStoreRedis:
		r, err := NewRedis(cfg.Token.RedisURL, cfg.App.Name)
		if err != nil {
			return nil, noop, err
		}
		return r, r.Close, nil
	default:
		return nil, noop, fmt.Errorf("tokenstore: backend desconocido %q", cfg.Token.Store)
	}
}
