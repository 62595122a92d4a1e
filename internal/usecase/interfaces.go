package usecase

import (
	"context"

	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/usecase/domain"
)

// StorefrontUsecaseInterface abstracts the landing page and shared catalogues.
type StorefrontUsecaseInterface interface {
	Storefront(ctx context.Context, host, domain string) (entities.Storefront, error)
	Countries() []entities.Country
	Media(ctx context.Context, id string) (entities.DataURL, error)
}

// RaffleUsecaseInterface abstracts raffle pages.
type RaffleUsecaseInterface interface {
	RaffleDetail(ctx context.Context, code string) (entities.RaffleDetail, error)
	VerifyPurchases(ctx context.Context, raffleID int64, email, countryCode, phone string) ([]entities.Purchase, error)
	WatchRaffles(ctx context.Context)
}

// CheckoutUsecaseInterface abstracts the purchase wizard.
type CheckoutUsecaseInterface interface {
	StartCheckout(ctx context.Context, code string) (*checkout.Session, error)
	Checkout(ctx context.Context, id string) (*checkout.Session, error)
	Participate(ctx context.Context, id string) (*checkout.Session, error)
	AcceptTerms(ctx context.Context, id string) (*checkout.Session, error)
	RejectTerms(ctx context.Context, id string) (*checkout.Session, error)
	Back(ctx context.Context, id string) (*checkout.Session, error)
	CancelCheckout(ctx context.Context, id string) (*checkout.Session, error)
	SelectTickets(ctx context.Context, id string, numbers []int) (*checkout.Session, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*checkout.Session, error)
	ChoosePaymentMethod(ctx context.Context, id, method string, bankID int64) (*checkout.Session, error)
	SubmitUserData(ctx context.Context, id string, data domain.UserData) (*checkout.Session, error)
	AcknowledgeInstructions(ctx context.Context, id string) (*checkout.Session, error)
	UploadVoucher(ctx context.Context, id, voucher string) (*checkout.Session, error)
	CleanupSessions(ctx context.Context)
}
