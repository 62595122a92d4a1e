package domain

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/entities"
)

const (
	// DefaultRefreshInterval is how often viewed raffles are re-fetched.
	DefaultRefreshInterval = 3 * time.Minute
	// DefaultIdleTTL is how long a raffle keeps being refreshed after its last view.
	DefaultIdleTTL = 30 * time.Minute
)

type raffleSnapshot struct {
	raffle    entities.Raffle
	tickets   []entities.PurchasedTicket
	fetchedAt time.Time

	gen      uint64
	viewedAt time.Time
}

// RaffleWatcher keeps the latest snapshot of every raffle viewed recently.
// Each stored snapshot carries a generation; a refresh only replaces the
// generation it started from, so Forget and newer data always win.
type RaffleWatcher struct {
	mu        sync.RWMutex
	backend   Backend
	clock     clock.Clock
	log       *zap.SugaredLogger
	interval  time.Duration
	idle      time.Duration
	gen       uint64
	snapshots map[string]raffleSnapshot
}

// NewRaffleWatcher creates a watcher. Non-positive durations use the defaults.
func NewRaffleWatcher(be Backend, clk clock.Clock, log *zap.SugaredLogger, interval, idle time.Duration) *RaffleWatcher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if idle <= 0 {
		idle = DefaultIdleTTL
	}
	return &RaffleWatcher{
		backend:   be,
		clock:     clk,
		log:       log.Named("watcher"),
		interval:  interval,
		idle:      idle,
		snapshots: make(map[string]raffleSnapshot),
	}
}

// snapshot returns the latest snapshot for code without marking it viewed.
func (w *RaffleWatcher) snapshot(code string) (raffleSnapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.snapshots[code]
	return s, ok
}

// view returns the latest snapshot for code and records the view.
func (w *RaffleWatcher) view(code string) (raffleSnapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.snapshots[code]
	if ok {
		s.viewedAt = w.clock.Now()
		w.snapshots[code] = s
	}
	return s, ok
}

// remember stores a freshly viewed snapshot and starts watching code.
func (w *RaffleWatcher) remember(code string, s raffleSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	s.gen = w.gen
	s.viewedAt = w.clock.Now()
	w.snapshots[code] = s
}

// replace stores a refreshed snapshot only if code still holds generation gen.
func (w *RaffleWatcher) replace(code string, gen uint64, s raffleSnapshot) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	cur, ok := w.snapshots[code]
	if !ok || cur.gen != gen {
		return false
	}
	w.gen++
	s.gen = w.gen
	s.viewedAt = cur.viewedAt
	w.snapshots[code] = s
	return true
}

// drop removes code if it still holds generation gen.
func (w *RaffleWatcher) drop(code string, gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cur, ok := w.snapshots[code]; ok && cur.gen == gen {
		delete(w.snapshots, code)
	}
}

// Forget drops a snapshot so the next view fetches fresh data.
func (w *RaffleWatcher) Forget(code string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.snapshots, code)
}

// Codes lists watched raffle codes.
func (w *RaffleWatcher) Codes() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	codes := make([]string, 0, len(w.snapshots))
	for c := range w.snapshots {
		codes = append(codes, c)
	}
	return codes
}

type watched struct {
	code     string
	gen      uint64
	viewedAt time.Time
}

func (w *RaffleWatcher) watched() []watched {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]watched, 0, len(w.snapshots))
	for code, s := range w.snapshots {
		out = append(out, watched{code: code, gen: s.gen, viewedAt: s.viewedAt})
	}
	return out
}

// Run refreshes all watched raffles on every tick until ctx is done.
func (w *RaffleWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RefreshAll(ctx)
		}
	}
}

// RefreshAll re-fetches every watched raffle. Raffles idle for longer than the
// idle TTL or gone from the backend stop being watched; other failures keep
// the old snapshot.
func (w *RaffleWatcher) RefreshAll(ctx context.Context) {
	for _, it := range w.watched() {
		if w.clock.Now().Sub(it.viewedAt) > w.idle {
			w.drop(it.code, it.gen)
			w.log.Debugw("raffle no longer viewed", "code", it.code)
			continue
		}

		s, err := fetchSnapshot(ctx, w.backend, it.code, w.clock.Now())
		if errors.Is(err, entities.ErrNotFound) {
			w.drop(it.code, it.gen)
			w.log.Debugw("raffle gone, unwatched", "code", it.code)
			continue
		}
		if err != nil {
			w.log.Debugw("raffle refresh failed", "code", it.code, "err", err)
			continue
		}
		if !w.replace(it.code, it.gen, s) {
			w.log.Debugw("raffle refresh discarded", "code", it.code)
		}
	}
}

// fetchSnapshot loads a raffle and, for pick-your-number raffles, its purchased
// tickets. A tickets failure is tolerated and leaves the list empty.
func fetchSnapshot(ctx context.Context, be Backend, code string, now time.Time) (raffleSnapshot, error) {
	r, err := be.RaffleByCode(ctx, code)
	if err != nil {
		return raffleSnapshot{}, err
	}
	s := raffleSnapshot{raffle: r, tickets: []entities.PurchasedTicket{}, fetchedAt: now}
	if r.SelectNumber {
		if tickets, err := be.PurchasedTickets(ctx, r.ID); err == nil {
			s.tickets = tickets
		}
	}
	return s, nil
}
