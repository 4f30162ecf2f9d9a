package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/comanda-client/internal/application/ports"
)

var _ ports.TokenStore = (*Redis)(nil)

// Redis almacén respaldado por Redis (terminales compartidas que conservan la sesión
// entre reinicios del dispositivo). Las claves se prefijan con namespace.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis prepara el cliente a partir de una URL redis://. No abre conexiones:
// un servidor inaccesible aparece como error en Get/Set/Remove, que la sesión
// registra y trata como ausencia de token.
func NewRedis(rawURL, namespace string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: REDIS_URL inválida: %w", err)
	}
	return &Redis{client: redis.NewClient(opts), namespace: namespace}, nil
}

func (r *Redis) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tokenstore: redis get: %w", err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis set: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis del: %w", err)
	}
	return nil
}

// Close libera la conexión.
func (r *Redis) Close() error { return r.client.Close() }
