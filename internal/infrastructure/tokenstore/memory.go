// Package tokenstore implementa el puerto TokenStore: almacén clave-valor persistente
// donde se guarda el token de sesión. Backends: archivo JSON, memoria y Redis.
package tokenstore

import (
	"context"
	"sync"

	"github.com/jhoicas/comanda-client/internal/application/ports"
)

var _ ports.TokenStore = (*Memory)(nil)

// Memory almacén en memoria (tests y sesiones efímeras).
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory construye un almacén vacío.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
