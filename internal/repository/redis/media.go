// Package redis implements the media cache on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"raffle-storefront/config"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/entities"
)

// MediaCache stores JSON-encoded media entries under prefixed keys.
type MediaCache struct {
	client *redis.Client
	log    *zap.SugaredLogger
	prefix string
	ttl    time.Duration
	clock  clock.Clock
}

// New creates a Redis media cache; the connection is checked in OnStart.
func New(log *zap.SugaredLogger, rc config.RedisConfig, mc config.MediaConfig, clk clock.Clock) *MediaCache {
	return NewWithClient(log, redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	}), mc, clk)
}

// NewWithClient wraps an existing client.
func NewWithClient(log *zap.SugaredLogger, client *redis.Client, mc config.MediaConfig, clk clock.Clock) *MediaCache {
	return &MediaCache{
		client: client,
		log:    log.Named("repo.redis"),
		prefix: mc.CachePrefix,
		ttl:    mc.CacheTTL,
		clock:  clk,
	}
}

// OnStart pings the server.
func (r *MediaCache) OnStart(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	r.log.Infow("redis ready", "addr", r.client.Options().Addr)
	return nil
}

// OnStop closes the client.
func (r *MediaCache) OnStop(_ context.Context) error {
	return r.client.Close()
}

// Get returns a fresh entry; stale or undecodable entries are deleted.
func (r *MediaCache) Get(ctx context.Context, id string) (string, bool, error) {
	key := r.prefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var item entities.CachedMedia
	if err := json.Unmarshal(raw, &item); err != nil || !item.Fresh(r.clock.Now(), r.ttl) {
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			r.log.Debugw("redis delete stale entry failed", "key", key, "err", delErr)
		}
		return "", false, nil
	}
	return item.Data, true, nil
}

// Put stores an entry. The key outlives the entry by a second so Get decides
// expiry at the boundary.
func (r *MediaCache) Put(ctx context.Context, id, dataURL string) error {
	key := r.prefix + id
	data, err := json.Marshal(entities.NewCachedMedia(dataURL, r.clock.Now()))
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl+time.Second).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
