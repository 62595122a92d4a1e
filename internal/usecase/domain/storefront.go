// Package domain contains application Usecases orchestrating storefront pages and checkout.
package domain

import (
	"context"
	"fmt"
	"strings"

	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/format"
)

// Storefront loads a client's landing page and warms its media.
// domain overrides the one derived from host when set.
func (u *Usecase) Storefront(ctx context.Context, host, domain string) (entities.Storefront, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()

	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = entities.DomainFromHost(host)
	}

	client, err := u.backend.ClientByDomain(ctx, domain)
	if err != nil {
		u.log.Errorw("failed to load client", "domain", domain, "err", err)
		return entities.Storefront{}, err
	}

	raffles, err := u.backend.ActiveRaffles(ctx, client.ID)
	if err != nil {
		u.log.Errorw("failed to load active raffles", "client_id", client.ID, "err", err)
		return entities.Storefront{}, err
	}

	ids := client.MediaIDs()
	cards := make([]entities.RaffleCard, 0, len(raffles))
	for _, r := range raffles {
		ids = append(ids, r.PrizeImageIDs()...)
		cards = append(cards, entities.RaffleCard{
			Raffle:         r,
			Prizes:         entities.ParsePrizes(r.Prizes),
			FormattedPrice: format.FormatPrice(r.TicketPrice, r.TicketCurrency),
		})
	}

	report := u.media.Run(ctx, ids, u.progressLogger("storefront", domain))
	u.log.Infow("storefront loaded", "domain", domain, "raffles", len(cards), "media_total", report.Total, "media_failed", report.Failed)

	return entities.Storefront{
		Domain:  domain,
		Client:  client,
		Raffles: cards,
		Media:   report,
	}, nil
}

func (u *Usecase) progressLogger(page, key string) func(loaded, total int) {
	return func(loaded, total int) {
		u.log.Debugw("media prefetch progress", "page", page, "key", key, "loaded", loaded, "total", total)
	}
}

// Countries returns the phone dial-code catalogue.
func (u *Usecase) Countries() []entities.Country {
	return entities.Countries()
}

// Media returns a decoded media file, served from the cache when possible.
func (u *Usecase) Media(ctx context.Context, id string) (entities.DataURL, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()

	id = strings.TrimSpace(id)
	if id == "" {
		return entities.DataURL{}, fmt.Errorf("%w: media id is required", entities.ErrInvalidArgument)
	}

	raw, err := u.media.Resolve(ctx, id)
	if err != nil {
		u.log.Warnw("failed to resolve media", "id", id, "err", err)
		return entities.DataURL{}, err
	}
	d, err := entities.ParseDataURL(raw)
	if err != nil {
		return entities.DataURL{}, fmt.Errorf("%w: cached media %s is corrupt: %v", entities.ErrUpstream, id, err)
	}
	return d, nil
}
