// Package bolt implements the media cache on an embedded bbolt file via storm.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asdine/storm/v3"
	"go.uber.org/zap"

	"raffle-storefront/config"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/entities"
)

// mediaRecord is the persisted form of a cache entry.
type mediaRecord struct {
	Key       string `storm:"id"`
	Data      string
	Timestamp int64
}

// MediaCache persists entries in a local storm database.
type MediaCache struct {
	db     *storm.DB
	log    *zap.SugaredLogger
	path   string
	prefix string
	ttl    time.Duration
	clock  clock.Clock
}

// New creates a bolt media cache; the file is opened in OnStart.
func New(log *zap.SugaredLogger, mc config.MediaConfig, clk clock.Clock) *MediaCache {
	return &MediaCache{
		log:    log.Named("repo.bolt"),
		path:   mc.BoltPath,
		prefix: mc.CachePrefix,
		ttl:    mc.CacheTTL,
		clock:  clk,
	}
}

// OnStart opens the database file, creating its directory if needed.
func (b *MediaCache) OnStart(_ context.Context) error {
	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create bolt dir: %w", err)
		}
	}
	db, err := storm.Open(b.path)
	if err != nil {
		return fmt.Errorf("open bolt %s: %w", b.path, err)
	}
	if err := db.Init(&mediaRecord{}); err != nil {
		_ = db.Close()
		return fmt.Errorf("init bolt bucket: %w", err)
	}
	b.db = db
	b.log.Infow("bolt ready", "path", b.path)
	return nil
}

// OnStop closes the database file.
func (b *MediaCache) OnStop(_ context.Context) error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Get returns a fresh entry and deletes a stale one.
func (b *MediaCache) Get(_ context.Context, id string) (string, bool, error) {
	var rec mediaRecord
	err := b.db.One("Key", b.prefix+id, &rec)
	if errors.Is(err, storm.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("bolt get %s: %w", id, err)
	}

	item := entities.CachedMedia{Data: rec.Data, Timestamp: rec.Timestamp}
	if !item.Fresh(b.clock.Now(), b.ttl) {
		if err := b.db.DeleteStruct(&rec); err != nil {
			b.log.Debugw("bolt delete stale entry failed", "key", rec.Key, "err", err)
		}
		return "", false, nil
	}
	return item.Data, true, nil
}

// Put upserts an entry stamped with the current time.
func (b *MediaCache) Put(_ context.Context, id, dataURL string) error {
	item := entities.NewCachedMedia(dataURL, b.clock.Now())
	rec := mediaRecord{Key: b.prefix + id, Data: item.Data, Timestamp: item.Timestamp}
	if err := b.db.Save(&rec); err != nil {
		return fmt.Errorf("bolt put %s: %w", id, err)
	}
	return nil
}
