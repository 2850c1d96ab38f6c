package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

var _ inventory.StockCache = (*StockCache)(nil)

const keyPrefix = "stock"

// Stats contadores de la cache.
type Stats struct {
	Hits     int64
	Misses   int64
	Bypassed int64
}

// StockCache cache de fotos de stock sobre Redis con invalidación por generación.
// Cada alcance (un proyecto o "all") tiene un contador; la foto se guarda bajo la
// generación leída antes de calcularla, así una invalidación concurrente deja la
// foto huérfana en vez de servirla. Si Redis falla se calcula directo durante un TTL.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
	now    func() time.Time

	bypassUntil atomic.Int64 // unix nanos
	hits        atomic.Int64
	misses      atomic.Int64
	bypassed    atomic.Int64
}

// NewStockCache construye la cache. ttl acota la vida de cada foto.
func NewStockCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *StockCache {
	return &StockCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "stock_cache").Logger(),
		now:    time.Now,
	}
}

// Load devuelve la foto del alcance desde Redis o la calcula con compute y la guarda.
func (c *StockCache) Load(ctx context.Context, projectID *int64, compute func(ctx context.Context) ([]*entity.Stock, error)) ([]*entity.Stock, error) {
	if c.bypassing() {
		c.bypassed.Add(1)
		return compute(ctx)
	}
	scope := scopeOf(projectID)

	gen, err := c.client.Get(ctx, genKey(scope)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.degrade(err, "leer generación")
		return compute(ctx)
	}
	key := snapshotKey(scope, gen)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var list []*entity.Stock
		if jerr := json.Unmarshal(raw, &list); jerr == nil {
			c.hits.Add(1)
			return list, nil
		}
		c.log.Warn().Str("key", key).Msg("foto de stock corrupta, se recalcula")
	case !errors.Is(err, redis.Nil):
		c.degrade(err, "leer foto")
		return compute(ctx)
	}

	c.misses.Add(1)
	list, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return list, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.degrade(err, "guardar foto")
	}
	return list, nil
}

// Invalidate avanza la generación del proyecto y la de "all".
func (c *StockCache) Invalidate(ctx context.Context, projectID int64) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey(scopeOf(&projectID)))
	pipe.Incr(ctx, genKey(scopeOf(nil)))
	if _, err := pipe.Exec(ctx); err != nil {
		// Sin invalidación las fotos pueden quedar viejas hasta su TTL: no se leen mientras tanto.
		c.degrade(err, "invalidar")
		return fmt.Errorf("invalidar cache de stock: %w", err)
	}
	return nil
}

// Stats devuelve los contadores acumulados.
func (c *StockCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Bypassed: c.bypassed.Load()}
}

func (c *StockCache) bypassing() bool {
	return c.now().UnixNano() < c.bypassUntil.Load()
}

func (c *StockCache) degrade(err error, op string) {
	c.bypassUntil.Store(c.now().Add(c.ttl).UnixNano())
	c.log.Warn().Err(err).Str("op", op).Dur("bypass", c.ttl).Msg("redis no disponible, cache deshabilitada temporalmente")
}

func scopeOf(projectID *int64) string {
	if projectID == nil {
		return "all"
	}
	return fmt.Sprintf("p:%d", *projectID)
}

func genKey(scope string) string {
	return fmt.Sprintf("%s:gen:%s", keyPrefix, scope)
}

func snapshotKey(scope string, gen int64) string {
	return fmt.Sprintf("%s:snap:%s:%d", keyPrefix, scope, gen)
}
