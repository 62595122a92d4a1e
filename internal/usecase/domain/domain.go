package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/gateway/backend"
	"raffle-storefront/internal/prefetch"
	"raffle-storefront/internal/repository"
)

// Backend is the raffle REST backend.
type Backend interface {
	ClientByDomain(ctx context.Context, domain string) (entities.Client, error)
	ActiveRaffles(ctx context.Context, clientID int64) ([]entities.Raffle, error)
	RaffleByCode(ctx context.Context, code string) (entities.Raffle, error)
	PurchasedTickets(ctx context.Context, raffleID int64) ([]entities.PurchasedTicket, error)
	VerifyPurchases(ctx context.Context, raffleID int64, lookup entities.PurchaseLookup) ([]entities.Purchase, error)
	RegisterUser(ctx context.Context, req backend.RegisterRequest) (int64, error)
	CreatePayment(ctx context.Context, req backend.PaymentRequest) (int64, error)
	BuyTickets(ctx context.Context, req backend.TicketRequest) error
}

// Media resolves media ids through the cache.
type Media interface {
	Run(ctx context.Context, ids []string, onProgress prefetch.ProgressFunc) prefetch.Report
	Resolve(ctx context.Context, id string) (string, error)
}

// Options tunes timeouts and background work.
type Options struct {
	Timeout         time.Duration
	SessionTTL      time.Duration
	PurgeInterval   time.Duration
	RefreshInterval time.Duration
	WatchIdle       time.Duration
}

// DefaultPurgeInterval is how often expired checkout sessions are deleted.
const DefaultPurgeInterval = 10 * time.Minute

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx      context.Context
	log      *zap.SugaredLogger
	backend  Backend
	media    Media
	sessions repository.SessionInterface
	clock    clock.Clock
	watcher  *RaffleWatcher
	locks    *sessionLocks
	newID    func() string
	opts     Options
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	be Backend,
	media Media,
	sessions repository.SessionInterface,
	clk clock.Clock,
	opts Options,
) *Usecase {
	return &Usecase{
		ctx:      ctx,
		log:      log,
		backend:  be,
		media:    media,
		sessions: sessions,
		clock:    clk,
		watcher:  NewRaffleWatcher(be, clk, log, opts.RefreshInterval, opts.WatchIdle),
		locks:    newSessionLocks(),
		newID:    uuid.NewString,
		opts:     opts,
	}
}

// WatchRaffles refreshes viewed raffles until ctx is done.
func (u *Usecase) WatchRaffles(ctx context.Context) {
	u.watcher.Run(ctx)
}

// CleanupSessions deletes expired checkout sessions on every purge interval
// until ctx is done.
func (u *Usecase) CleanupSessions(ctx context.Context) {
	if u.opts.SessionTTL <= 0 {
		return
	}
	interval := u.opts.PurgeInterval
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.purgeExpiredSessions(ctx)
		}
	}
}

func (u *Usecase) purgeExpiredSessions(ctx context.Context) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()

	n, err := u.sessions.PurgeSessions(ctx, u.clock.Now().Add(-u.opts.SessionTTL))
	if err != nil {
		u.log.Warnw("failed to purge expired sessions", "err", err)
		return
	}
	if n > 0 {
		u.log.Infow("expired sessions purged", "count", n)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
