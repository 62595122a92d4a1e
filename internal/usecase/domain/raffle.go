package domain

import (
	"context"
	"fmt"
	"strings"

	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/format"
)

// RaffleDetail loads a raffle page, preferring the watcher's latest snapshot.
func (u *Usecase) RaffleDetail(ctx context.Context, code string) (entities.RaffleDetail, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()

	code = strings.TrimSpace(code)
	if code == "" {
		return entities.RaffleDetail{}, fmt.Errorf("%w: raffle code is required", entities.ErrInvalidArgument)
	}

	snap, ok := u.watcher.view(code)
	if !ok {
		var err error
		snap, err = fetchSnapshot(ctx, u.backend, code, u.clock.Now())
		if err != nil {
			u.log.Errorw("failed to load raffle", "code", code, "err", err)
			return entities.RaffleDetail{}, err
		}
		u.watcher.remember(code, snap)
	}

	r := snap.raffle
	report := u.media.Run(ctx, r.MediaIDs(), u.progressLogger("raffle", code))

	purchased := make([]int, 0, len(snap.tickets))
	for _, t := range snap.tickets {
		purchased = append(purchased, t.Number)
	}

	detail := entities.RaffleDetail{
		Raffle:           r,
		Prizes:           entities.ParsePrizes(r.Prizes),
		PaymentMethods:   entities.GroupPaymentMethods(r.PaymentData, r.MinTickets),
		PurchasedNumbers: purchased,
		FormattedPrice:   format.FormatPrice(r.TicketPrice, r.TicketCurrency),
		Media:            report,
		RefreshedAt:      snap.fetchedAt,
	}
	if r.SelectNumber {
		detail.AvailableNumbers = entities.AvailableNumbers(r.TicketLimit, snap.tickets)
	}
	if d, ok := r.DrawDate(); ok {
		detail.Upcoming = d.After(u.clock.Now())
	}
	return detail, nil
}

// VerifyPurchases looks up a buyer's purchases by email or by phone.
func (u *Usecase) VerifyPurchases(ctx context.Context, raffleID int64, email, countryCode, phone string) ([]entities.Purchase, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()

	if raffleID <= 0 {
		return nil, fmt.Errorf("%w: raffle id is required", entities.ErrInvalidArgument)
	}

	var lookup entities.PurchaseLookup
	email = strings.TrimSpace(email)
	switch {
	case email != "":
		if !entities.ValidEmail(email) {
			return nil, fmt.Errorf("%w: invalid email %q", entities.ErrInvalidArgument, email)
		}
		lookup.Email = email
	case strings.TrimSpace(phone) != "":
		lookup.Phone = entities.FullPhone(entities.DialCode(countryCode), phone)
		if lookup.Phone == "" {
			return nil, fmt.Errorf("%w: phone must contain digits", entities.ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("%w: email or phone is required", entities.ErrInvalidArgument)
	}

	purchases, err := u.backend.VerifyPurchases(ctx, raffleID, lookup)
	if err != nil {
		u.log.Errorw("failed to verify purchases", "raffle_id", raffleID, "err", err)
		return nil, err
	}
	return purchases, nil
}
