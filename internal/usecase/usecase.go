package usecase

import (
	"context"

	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/repository"
	"raffle-storefront/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	StorefrontUsecaseInterface
	RaffleUsecaseInterface
	CheckoutUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	be domain.Backend,
	media domain.Media,
	sessions repository.SessionInterface,
	clk clock.Clock,
	opts domain.Options,
) InterfaceUsecase {
	return domain.New(log, ctx, be, media, sessions, clk, opts)
}
