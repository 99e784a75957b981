// Package redis guardia de corridas en curso compartida entre instancias.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/pkg/config"
)

const (
	inFlightKeyPrefix = "stocksync:inflight:"
	// DefaultTTL vence la reserva si la instancia muere a mitad de corrida.
	DefaultTTL = 2 * time.Minute
	// ttlMargin holgura sobre el timeout remoto para el commit local y la publicación de eventos.
	ttlMargin = time.Minute
)

// TTLFor TTL de reserva que nunca vence antes que la llamada remota: remoteTimeout + margen,
// y como mínimo DefaultTTL.
func TTLFor(remoteTimeout time.Duration) time.Duration {
	if ttl := remoteTimeout + ttlMargin; ttl > DefaultTTL {
		return ttl
	}
	return DefaultTTL
}

var _ stocksync.Guard = (*Guard)(nil)

// releaseScript borra la clave solo si sigue siendo del RunID dado.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// Guard reserva cada SKU con SET NX + TTL; el valor de la clave es el RunID dueño.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient abre el cliente y hace ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewGuard ttl <= 0 usa DefaultTTL.
func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{client: client, ttl: ttl}
}

func (g *Guard) Acquire(ctx context.Context, sku, owner string) (bool, error) {
	ok, err := g.client.SetNX(ctx, inFlightKeyPrefix+sku, owner, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release borra la clave solo si sigue siendo de owner: una reserva vencida y retomada por
// otra corrida no se toca.
func (g *Guard) Release(ctx context.Context, sku, owner string) error {
	if err := releaseScript.Run(ctx, g.client, []string{inFlightKeyPrefix + sku}, owner).Err(); err != nil {
		return fmt.Errorf("redis release: %w", err)
	}
	return nil
}
