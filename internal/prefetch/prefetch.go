// Package prefetch warms the media cache before a page is served.
package prefetch

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"raffle-storefront/internal/entities"
)

// DefaultBatchSize bounds concurrent downloads.
const DefaultBatchSize = 5

// Cache is the subset of the media cache the prefetcher needs.
type Cache interface {
	Get(ctx context.Context, id string) (string, bool, error)
	Put(ctx context.Context, id, dataURL string) error
}

// Downloader fetches a media id as a data URL.
type Downloader interface {
	DownloadDataURL(ctx context.Context, id string) (string, error)
}

// ProgressFunc receives (loaded, total) after each processed id.
type ProgressFunc func(loaded, total int)

// Report summarizes a run.
type Report = entities.MediaReport

// Prefetcher downloads missing media in bounded batches.
type Prefetcher struct {
	cache     Cache
	dl        Downloader
	log       *zap.SugaredLogger
	batchSize int
}

// New creates a prefetcher; batchSize <= 0 means DefaultBatchSize.
func New(cache Cache, dl Downloader, log *zap.SugaredLogger, batchSize int) *Prefetcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Prefetcher{cache: cache, dl: dl, log: log.Named("prefetch"), batchSize: batchSize}
}

// Filter drops empty ids, absolute URLs and inline data URLs and removes duplicates.
func Filter(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || strings.HasPrefix(id, "http") || strings.HasPrefix(id, "data:") {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Run resolves every id through the cache. A failed id is logged and still counts as processed.
func (p *Prefetcher) Run(ctx context.Context, ids []string, onProgress ProgressFunc) Report {
	if onProgress == nil {
		onProgress = func(int, int) {}
	}

	valid := Filter(ids)
	report := Report{Total: len(valid)}
	if report.Total == 0 {
		onProgress(0, 0)
		return report
	}

	var mu sync.Mutex
	done := func(failed bool) {
		mu.Lock()
		defer mu.Unlock()
		report.Loaded++
		if failed {
			report.Failed++
		}
		onProgress(report.Loaded, report.Total)
	}

	for start := 0; start < len(valid); start += p.batchSize {
		if ctx.Err() != nil {
			p.log.Debugw("prefetch cancelled", "loaded", report.Loaded, "total", report.Total)
			break
		}
		end := min(start+p.batchSize, len(valid))

		var wg sync.WaitGroup
		for _, id := range valid[start:end] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := p.Resolve(ctx, id)
				if err != nil {
					p.log.Warnw("prefetch media failed", "id", id, "err", err)
				}
				done(err != nil)
			}(id)
		}
		wg.Wait()
	}

	mu.Lock()
	defer mu.Unlock()
	return report
}

// Resolve returns the cached data URL for id, downloading and caching it on a miss.
func (p *Prefetcher) Resolve(ctx context.Context, id string) (string, error) {
	if data, ok, err := p.cache.Get(ctx, id); err != nil {
		p.log.Debugw("media cache read failed", "id", id, "err", err)
	} else if ok {
		return data, nil
	}

	data, err := p.dl.DownloadDataURL(ctx, id)
	if err != nil {
		return "", err
	}
	if err := p.cache.Put(ctx, id, data); err != nil {
		p.log.Warnw("media cache write failed", "id", id, "err", err)
	}
	return data, nil
}
