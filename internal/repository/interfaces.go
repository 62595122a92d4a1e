// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"raffle-storefront/internal/checkout"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// MediaCacheInterface stores downloaded media as data URLs.
// Get reports ok=false for missing or expired entries.
type MediaCacheInterface interface {
	Get(ctx context.Context, id string) (string, bool, error)
	Put(ctx context.Context, id, dataURL string) error
}

// SessionInterface persists checkout wizard sessions.
type SessionInterface interface {
	SaveSession(ctx context.Context, s *checkout.Session) error
	GetSession(ctx context.Context, id string) (*checkout.Session, error)
	// PurgeSessions deletes sessions last updated before cutoff and reports how many.
	PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error)
}
