// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"raffle-storefront/config"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/repository/bolt"
	"raffle-storefront/internal/repository/memory"
	"raffle-storefront/internal/repository/postgres"
	"raffle-storefront/internal/repository/redis"

	"go.uber.org/zap"
)

// MediaCache is a media cache backend with lifecycle hooks.
type MediaCache interface {
	LifecycleInterface
	MediaCacheInterface
}

// SessionStore is a checkout session backend with lifecycle hooks.
type SessionStore interface {
	LifecycleInterface
	SessionInterface
}

// NewMediaCache constructs media cache backend by name.
func NewMediaCache(name string, log *zap.SugaredLogger, cfg *config.Config, clk clock.Clock) (MediaCache, error) {
	switch name {
	case "memory":
		return memory.NewMediaCache(cfg.Media, clk), nil
	case "redis":
		return redis.New(log, cfg.Redis, cfg.Media, clk), nil
	case "bolt":
		return bolt.New(log, cfg.Media, clk), nil
	default:
		return nil, fmt.Errorf("unknown media cache backend: %s", name)
	}
}

// NewSessionStore constructs checkout session backend by name.
func NewSessionStore(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (SessionStore, error) {
	switch name {
	case "memory":
		return memory.NewSessionStore(), nil
	case "postgres":
		return postgres.New(ctx, log, cfg), nil
	default:
		return nil, fmt.Errorf("unknown session store backend: %s", name)
	}
}
