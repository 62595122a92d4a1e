package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/gateway/backend"
)

// MaxVoucherBytes caps the decoded voucher image.
const MaxVoucherBytes = 10 << 20

// UserData is the buyer form of the checkout wizard.
type UserData struct {
	Name        string
	Email       string
	CountryCode string
	Phone       string
}

// StartCheckout opens a wizard session for a raffle.
func (u *Usecase) StartCheckout(ctx context.Context, code string) (*checkout.Session, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: raffleCode is required", entities.ErrInvalidArgument)
	}

	r, err := u.backend.RaffleByCode(ctx, code)
	if err != nil {
		u.log.Errorw("failed to load raffle for checkout", "code", code, "err", err)
		return nil, err
	}

	sess := checkout.NewSession(u.newID(), r, u.clock.Now())
	if err := u.sessions.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	u.log.Infow("checkout started", "session_id", sess.ID, "raffle", code)
	return sess, nil
}

// Checkout returns a session.
func (u *Usecase) Checkout(ctx context.Context, id string) (*checkout.Session, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()
	return u.loadSession(ctx, id)
}

// Participate opens the terms step.
func (u *Usecase) Participate(ctx context.Context, id string) (*checkout.Session, error) {
	return u.step(ctx, id, "participate", (*checkout.Session).Participate)
}

// AcceptTerms moves to payment method selection.
func (u *Usecase) AcceptTerms(ctx context.Context, id string) (*checkout.Session, error) {
	return u.step(ctx, id, "accept terms", (*checkout.Session).AcceptTerms)
}

// RejectTerms returns to browsing.
func (u *Usecase) RejectTerms(ctx context.Context, id string) (*checkout.Session, error) {
	return u.step(ctx, id, "reject terms", (*checkout.Session).RejectTerms)
}

// Back returns to the previous step.
func (u *Usecase) Back(ctx context.Context, id string) (*checkout.Session, error) {
	return u.step(ctx, id, "back", (*checkout.Session).Back)
}

// CancelCheckout abandons the wizard.
func (u *Usecase) CancelCheckout(ctx context.Context, id string) (*checkout.Session, error) {
	return u.step(ctx, id, "cancel", (*checkout.Session).Cancel)
}

// AcknowledgeInstructions opens the voucher upload.
func (u *Usecase) AcknowledgeInstructions(ctx context.Context, id string) (*checkout.Session, error) {
	return u.step(ctx, id, "acknowledge instructions", (*checkout.Session).AcknowledgeInstructions)
}

// SetQuantity sets the random ticket count.
func (u *Usecase) SetQuantity(ctx context.Context, id string, quantity int) (*checkout.Session, error) {
	return u.step(ctx, id, "set quantity", func(s *checkout.Session) error {
		return s.SetQuantity(quantity)
	})
}

// ChoosePaymentMethod selects a payment method and bank.
func (u *Usecase) ChoosePaymentMethod(ctx context.Context, id, method string, bankID int64) (*checkout.Session, error) {
	return u.step(ctx, id, "choose payment method", func(s *checkout.Session) error {
		return s.ChoosePaymentMethod(method, bankID)
	})
}

// SubmitUserData stores the buyer's contact data.
func (u *Usecase) SubmitUserData(ctx context.Context, id string, data UserData) (*checkout.Session, error) {
	return u.step(ctx, id, "submit user data", func(s *checkout.Session) error {
		return s.SubmitUserData(data.Name, data.Email, entities.DialCode(data.CountryCode), data.Phone)
	})
}

// SelectTickets picks explicit numbers, checked against the currently purchased ones.
func (u *Usecase) SelectTickets(ctx context.Context, id string, numbers []int) (*checkout.Session, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()
	defer u.locks.lock(strings.TrimSpace(id))()

	sess, err := u.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	var purchased []entities.PurchasedTicket
	if sess.SelectNumber {
		purchased, err = u.backend.PurchasedTickets(ctx, sess.RaffleID)
		if err != nil {
			u.log.Warnw("purchased tickets unavailable, using last snapshot", "raffle_id", sess.RaffleID, "err", err)
			if snap, ok := u.watcher.snapshot(sess.RaffleCode); ok {
				purchased = snap.tickets
			}
		}
	}

	if err := sess.SelectTickets(numbers, entities.PurchasedNumbers(purchased)); err != nil {
		return nil, err
	}
	return sess, u.saveSession(ctx, sess)
}

// UploadVoucher registers the buyer, creates the payment and buys the tickets.
// A backend failure keeps the session on the upload step with the message recorded.
// Concurrent uploads for one session run one at a time; once the first completes
// the others fail with ErrInvalidStep.
func (u *Usecase) UploadVoucher(ctx context.Context, id, voucher string) (*checkout.Session, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()
	defer u.locks.lock(strings.TrimSpace(id))()

	sess, err := u.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.ReadyForVoucher(); err != nil {
		return nil, err
	}
	if err := validateVoucher(voucher); err != nil {
		return nil, err
	}

	userID, err := u.backend.RegisterUser(ctx, backend.RegisterRequest{
		Email:       sess.Buyer.Email,
		Name:        sess.Buyer.Name,
		PhoneNumber: sess.Buyer.Phone,
		Client:      sess.ClientID,
	})
	if err != nil {
		return sess, u.failCheckout(ctx, sess, "register user", err)
	}

	paymentID, err := u.backend.CreatePayment(ctx, backend.PaymentRequest{
		Voucher: voucher,
		Method:  sess.Method,
		Raffle:  sess.RaffleID,
		User:    userID,
	})
	if err != nil {
		return sess, u.failCheckout(ctx, sess, "create payment", err)
	}

	req := backend.TicketRequest{
		UserID:               userID,
		NumberOfTicketsToBuy: sess.TicketCount(),
		RaffleID:             sess.RaffleID,
		PaymentID:            paymentID,
	}
	if sess.SelectNumber && len(sess.SelectedTickets) > 0 {
		req.TicketNumbers = sess.SelectedTickets
	}
	if err := u.backend.BuyTickets(ctx, req); err != nil {
		return sess, u.failCheckout(ctx, sess, "buy tickets", err)
	}

	if err := sess.Complete(userID, paymentID); err != nil {
		return nil, err
	}
	if err := u.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	u.watcher.Forget(sess.RaffleCode)
	u.log.Infow("checkout completed", "session_id", sess.ID, "user_id", userID, "payment_id", paymentID, "tickets", sess.TicketCount())
	return sess, nil
}

func validateVoucher(voucher string) error {
	if !strings.HasPrefix(voucher, "data:image/") {
		return fmt.Errorf("%w: voucher must be an image", entities.ErrInvalidArgument)
	}
	d, err := entities.ParseDataURL(voucher)
	if err != nil {
		return err
	}
	if len(d.Data) > MaxVoucherBytes {
		return fmt.Errorf("%w: voucher exceeds 10MB", entities.ErrInvalidArgument)
	}
	return nil
}

func (u *Usecase) failCheckout(ctx context.Context, sess *checkout.Session, op string, cause error) error {
	msg := cause.Error()
	var apiErr *backend.APIError
	if errors.As(cause, &apiErr) {
		msg = apiErr.Message
	}
	u.log.Errorw("checkout step failed", "session_id", sess.ID, "op", op, "err", cause)

	sess.Fail(msg)
	if err := u.saveSession(ctx, sess); err != nil {
		u.log.Errorw("failed to record checkout error", "session_id", sess.ID, "err", err)
	}
	return fmt.Errorf("%w: %s", entities.ErrCheckoutFailed, msg)
}

func (u *Usecase) step(ctx context.Context, id, op string, apply func(*checkout.Session) error) (*checkout.Session, error) {
	ctx, cancel := withTimeout(ctx, u.opts.Timeout)
	defer cancel()
	defer u.locks.lock(strings.TrimSpace(id))()

	sess, err := u.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sess); err != nil {
		u.log.Debugw("checkout step rejected", "session_id", id, "op", op, "step", sess.Step, "err", err)
		return nil, err
	}
	if err := u.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (u *Usecase) loadSession(ctx context.Context, id string) (*checkout.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: session id is required", entities.ErrInvalidArgument)
	}
	sess, err := u.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(u.clock.Now(), u.opts.SessionTTL) {
		return nil, fmt.Errorf("%w: %s expired", entities.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (u *Usecase) saveSession(ctx context.Context, sess *checkout.Session) error {
	sess.Touch(u.clock.Now())
	if err := u.sessions.SaveSession(ctx, sess); err != nil {
		u.log.Errorw("failed to save session", "session_id", sess.ID, "err", err)
		return err
	}
	return nil
}
