package domain

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/gateway/backend"
	"raffle-storefront/internal/prefetch"
	"raffle-storefront/internal/repository/memory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type backendMock struct{ mock.Mock }

var _ Backend = (*backendMock)(nil)

func (m *backendMock) ClientByDomain(ctx context.Context, domain string) (entities.Client, error) {
	args := m.Called(ctx, domain)
	return args.Get(0).(entities.Client), args.Error(1)
}

func (m *backendMock) ActiveRaffles(ctx context.Context, clientID int64) ([]entities.Raffle, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Raffle), args.Error(1)
}

func (m *backendMock) RaffleByCode(ctx context.Context, code string) (entities.Raffle, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(entities.Raffle), args.Error(1)
}

func (m *backendMock) PurchasedTickets(ctx context.Context, raffleID int64) ([]entities.PurchasedTicket, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PurchasedTicket), args.Error(1)
}

func (m *backendMock) VerifyPurchases(ctx context.Context, raffleID int64, lookup entities.PurchaseLookup) ([]entities.Purchase, error) {
	args := m.Called(ctx, raffleID, lookup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Purchase), args.Error(1)
}

func (m *backendMock) RegisterUser(ctx context.Context, req backend.RegisterRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *backendMock) CreatePayment(ctx context.Context, req backend.PaymentRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *backendMock) BuyTickets(ctx context.Context, req backend.TicketRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type mediaMock struct{ mock.Mock }

var _ Media = (*mediaMock)(nil)

func (m *mediaMock) Run(ctx context.Context, ids []string, onProgress prefetch.ProgressFunc) prefetch.Report {
	args := m.Called(ctx, ids)
	return args.Get(0).(prefetch.Report)
}

func (m *mediaMock) Resolve(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

var t0 = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

type fixture struct {
	uc       *Usecase
	backend  *backendMock
	media    *mediaMock
	sessions *memory.SessionStore
	clock    *clock.Manual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend:  &backendMock{},
		media:    &mediaMock{},
		sessions: memory.NewSessionStore(),
		clock:    clock.NewManual(t0),
	}
	f.uc = New(zap.NewNop().Sugar(), context.Background(), f.backend, f.media, f.sessions, f.clock, Options{
		Timeout:    time.Second,
		SessionTTL: time.Hour,
	})
	f.uc.newID = func() string { return "sess-1" }
	return f
}

func sampleRaffle(selectNumber bool) entities.Raffle {
	return entities.Raffle{
		ID:             3,
		InnerCode:      "R3",
		Name:           "Moto",
		TicketPrice:    "10",
		TicketCurrency: "Bs.",
		Prizes:         []string{"Moto@img1", "Casco"},
		SelectNumber:   selectNumber,
		TicketLimit:    10,
		Date:           "2026-03-01T00:00:00Z",
		Client:         &entities.Client{ID: 7, LogoURL: ptr("logo1")},
		PaymentData: []entities.PaymentData{
			{ID: 1, Method: "Pago Movil", Bank: "Banesco", Logo: "pm-logo"},
		},
	}
}

func TestUsecase_Storefront(t *testing.T) {
	f := newFixture(t)
	client := entities.Client{ID: 7, FantasyName: "Acme", LogoURL: ptr("logo1"), BannerURL: ptr("banner1")}
	f.backend.On("ClientByDomain", mock.Anything, "acme").Return(client, nil)
	f.backend.On("ActiveRaffles", mock.Anything, int64(7)).Return([]entities.Raffle{sampleRaffle(false)}, nil)
	f.media.On("Run", mock.Anything, []string{"logo1", "banner1", "img1"}).
		Return(prefetch.Report{Total: 3, Loaded: 3, Failed: 1})

	sf, err := f.uc.Storefront(context.Background(), "acme.rifasuerte.com", "")
	require.NoError(t, err)
	require.Equal(t, "acme", sf.Domain)
	require.Len(t, sf.Raffles, 1)
	require.Equal(t, "10,00 Bs.", sf.Raffles[0].FormattedPrice)
	require.Equal(t, "Moto", sf.Raffles[0].Prizes[0].Name)
	require.Equal(t, 1, sf.Media.Failed)
	f.backend.AssertExpectations(t)
	f.media.AssertExpectations(t)
}

func TestUsecase_StorefrontClientError(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ClientByDomain", mock.Anything, "localhost").
		Return(entities.Client{}, &backend.APIError{Status: http.StatusNotFound, Message: "no client"})

	_, err := f.uc.Storefront(context.Background(), "localhost:3000", "")
	require.ErrorIs(t, err, entities.ErrNotFound)
	f.media.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestUsecase_RaffleDetail(t *testing.T) {
	f := newFixture(t)
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(true), nil).Once()
	f.backend.On("PurchasedTickets", mock.Anything, int64(3)).
		Return([]entities.PurchasedTicket{{Number: 2}, {Number: 5}}, nil).Once()
	f.media.On("Run", mock.Anything, []string{"logo1", "img1", "pm-logo"}).Return(prefetch.Report{Total: 3, Loaded: 3})

	d, err := f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)
	require.Equal(t, []int{2, 5}, d.PurchasedNumbers)
	require.Equal(t, []int{0, 1, 3, 4, 6, 7, 8, 9}, d.AvailableNumbers)
	require.True(t, d.Upcoming)
	require.Len(t, d.PaymentMethods, 1)
	require.Equal(t, t0, d.RefreshedAt)

	// served from the watcher snapshot
	_, err = f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)
	f.backend.AssertExpectations(t)
}

func TestUsecase_RaffleDetailToleratesTicketFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(true), nil)
	f.backend.On("PurchasedTickets", mock.Anything, int64(3)).Return(nil, entities.ErrUpstream)
	f.media.On("Run", mock.Anything, mock.Anything).Return(prefetch.Report{})

	d, err := f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)
	require.Empty(t, d.PurchasedNumbers)
	require.Len(t, d.AvailableNumbers, 10)
}

func TestUsecase_RaffleDetailValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RaffleDetail(context.Background(), " ")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestWatcher_RefreshAllSwallowsErrors(t *testing.T) {
	f := newFixture(t)
	updated := sampleRaffle(false)
	updated.Name = "Moto 2"
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil).Once()
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(entities.Raffle{}, entities.ErrUpstream).Once()
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(updated, nil).Once()
	f.media.On("Run", mock.Anything, mock.Anything).Return(prefetch.Report{})

	_, err := f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)

	f.uc.watcher.RefreshAll(context.Background())
	d, err := f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)
	require.Equal(t, "Moto", d.Raffle.Name)

	f.clock.Advance(3 * time.Minute)
	f.uc.watcher.RefreshAll(context.Background())
	d, err = f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)
	require.Equal(t, "Moto 2", d.Raffle.Name)
	require.Equal(t, t0.Add(3*time.Minute), d.RefreshedAt)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	w := NewRaffleWatcher(f.backend, f.clock, zap.NewNop().Sugar(), time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestUsecase_VerifyPurchases(t *testing.T) {
	f := newFixture(t)
	f.backend.On("VerifyPurchases", mock.Anything, int64(3), entities.PurchaseLookup{Phone: "+584141234567"}).
		Return([]entities.Purchase{{Payment: entities.PurchasePayment{IsValidated: "aprobado"}}}, nil)
	f.backend.On("VerifyPurchases", mock.Anything, int64(3), entities.PurchaseLookup{Email: "a@b.co"}).
		Return([]entities.Purchase{}, nil)

	got, err := f.uc.VerifyPurchases(context.Background(), 3, "", "VE", "414-123-4567")
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = f.uc.VerifyPurchases(context.Background(), 3, " a@b.co ", "", "")
	require.NoError(t, err)

	_, err = f.uc.VerifyPurchases(context.Background(), 3, "bad", "", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = f.uc.VerifyPurchases(context.Background(), 3, "", "", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	f.backend.AssertExpectations(t)
}

func TestUsecase_Media(t *testing.T) {
	f := newFixture(t)
	f.media.On("Resolve", mock.Anything, "logo1").Return("data:image/png;base64,iVBORw0KGgo=", nil)
	f.media.On("Resolve", mock.Anything, "gone").Return("", entities.ErrNotFound)

	d, err := f.uc.Media(context.Background(), "logo1")
	require.NoError(t, err)
	require.Equal(t, "image/png", d.MediaType)

	_, err = f.uc.Media(context.Background(), "gone")
	require.ErrorIs(t, err, entities.ErrNotFound)
}

const voucher = "data:image/png;base64,iVBORw0KGgo="

func readyForVoucher(t *testing.T, f *fixture, r entities.Raffle) {
	t.Helper()
	ctx := context.Background()
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(r, nil)

	_, err := f.uc.StartCheckout(ctx, "R3")
	require.NoError(t, err)
	_, err = f.uc.Participate(ctx, "sess-1")
	require.NoError(t, err)
	_, err = f.uc.AcceptTerms(ctx, "sess-1")
	require.NoError(t, err)
	if r.SelectNumber {
		f.backend.On("PurchasedTickets", mock.Anything, r.ID).Return([]entities.PurchasedTicket{{Number: 1}}, nil)
		_, err = f.uc.SelectTickets(ctx, "sess-1", []int{4, 2})
		require.NoError(t, err)
	}
	_, err = f.uc.ChoosePaymentMethod(ctx, "sess-1", "Pago Movil", 0)
	require.NoError(t, err)
	_, err = f.uc.SubmitUserData(ctx, "sess-1", UserData{Name: "Ana", Email: "a@b.co", CountryCode: "+58", Phone: "4141234567"})
	require.NoError(t, err)
	sess, err := f.uc.AcknowledgeInstructions(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, checkout.StepUploadVoucher, sess.Step)
}

func TestUsecase_UploadVoucherCompletes(t *testing.T) {
	f := newFixture(t)
	readyForVoucher(t, f, sampleRaffle(true))

	f.backend.On("RegisterUser", mock.Anything, backend.RegisterRequest{
		Email: "a@b.co", Name: "Ana", PhoneNumber: "+584141234567", Client: 7,
	}).Return(int64(11), nil)
	f.backend.On("CreatePayment", mock.Anything, backend.PaymentRequest{
		Voucher: voucher, Method: "Pago Movil", Raffle: 3, User: 11,
	}).Return(int64(22), nil)
	f.backend.On("BuyTickets", mock.Anything, backend.TicketRequest{
		UserID: 11, NumberOfTicketsToBuy: 2, RaffleID: 3, PaymentID: 22, TicketNumbers: []int{2, 4},
	}).Return(nil)

	sess, err := f.uc.UploadVoucher(context.Background(), "sess-1", voucher)
	require.NoError(t, err)
	require.Equal(t, checkout.StepCompleted, sess.Step)
	require.EqualValues(t, 22, sess.PaymentID)
	f.backend.AssertExpectations(t)
}

func TestUsecase_UploadVoucherFailureKeepsStep(t *testing.T) {
	f := newFixture(t)
	readyForVoucher(t, f, sampleRaffle(false))

	f.backend.On("RegisterUser", mock.Anything, mock.Anything).Return(int64(11), nil)
	f.backend.On("CreatePayment", mock.Anything, mock.Anything).
		Return(int64(0), &backend.APIError{Status: http.StatusBadRequest, Message: "Comprobante duplicado"})

	_, err := f.uc.UploadVoucher(context.Background(), "sess-1", voucher)
	require.ErrorIs(t, err, entities.ErrCheckoutFailed)
	require.Contains(t, err.Error(), "Comprobante duplicado")
	f.backend.AssertNotCalled(t, "BuyTickets", mock.Anything, mock.Anything)

	sess, err := f.uc.Checkout(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Equal(t, checkout.StepUploadVoucher, sess.Step)
	require.Equal(t, "Comprobante duplicado", sess.LastError)
}

func TestUsecase_UploadVoucherValidation(t *testing.T) {
	f := newFixture(t)
	readyForVoucher(t, f, sampleRaffle(false))

	_, err := f.uc.UploadVoucher(context.Background(), "sess-1", "data:application/pdf;base64,AA==")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = f.uc.UploadVoucher(context.Background(), "sess-1", "data:image/png;base64,***")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	f.backend.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything)
}

func TestUsecase_UploadVoucherRequiresStep(t *testing.T) {
	f := newFixture(t)
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil)
	_, err := f.uc.StartCheckout(context.Background(), "R3")
	require.NoError(t, err)

	_, err = f.uc.UploadVoucher(context.Background(), "sess-1", voucher)
	require.ErrorIs(t, err, entities.ErrInvalidStep)
}

func TestUsecase_SessionExpiry(t *testing.T) {
	f := newFixture(t)
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil)
	_, err := f.uc.StartCheckout(context.Background(), "R3")
	require.NoError(t, err)

	f.clock.Advance(59 * time.Minute)
	_, err = f.uc.Participate(context.Background(), "sess-1")
	require.NoError(t, err)

	f.clock.Advance(61 * time.Minute)
	_, err = f.uc.Checkout(context.Background(), "sess-1")
	require.ErrorIs(t, err, entities.ErrSessionNotFound)
}

func TestUsecase_StartCheckoutErrors(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartCheckout(context.Background(), "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	f.backend.On("RaffleByCode", mock.Anything, "nope").Return(entities.Raffle{}, &backend.APIError{Status: http.StatusNotFound, Message: "Rifa no encontrada"})
	_, err = f.uc.StartCheckout(context.Background(), "nope")
	require.ErrorIs(t, err, entities.ErrNotFound)

	_, err = f.uc.Checkout(context.Background(), "missing")
	require.ErrorIs(t, err, entities.ErrSessionNotFound)
}

func TestUsecase_SelectTicketsRejectsPurchased(t *testing.T) {
	f := newFixture(t)
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(true), nil)
	f.backend.On("PurchasedTickets", mock.Anything, int64(3)).Return([]entities.PurchasedTicket{{Number: 1}}, nil)
	_, err := f.uc.StartCheckout(context.Background(), "R3")
	require.NoError(t, err)

	_, err = f.uc.SelectTickets(context.Background(), "sess-1", []int{1})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	sess, err := f.uc.SelectTickets(context.Background(), "sess-1", []int{3})
	require.NoError(t, err)
	require.Equal(t, []int{3}, sess.SelectedTickets)
}

func TestUsecase_UploadVoucherConcurrentBuysOnce(t *testing.T) {
	f := newFixture(t)
	readyForVoucher(t, f, sampleRaffle(false))

	f.backend.On("RegisterUser", mock.Anything, mock.Anything).After(50*time.Millisecond).Return(int64(11), nil)
	f.backend.On("CreatePayment", mock.Anything, mock.Anything).Return(int64(22), nil)
	f.backend.On("BuyTickets", mock.Anything, mock.Anything).Return(nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.UploadVoucher(context.Background(), "sess-1", voucher)
		}(i)
	}
	wg.Wait()

	f.backend.AssertNumberOfCalls(t, "BuyTickets", 1)
	f.backend.AssertNumberOfCalls(t, "RegisterUser", 1)
	if errs[0] == nil {
		require.ErrorIs(t, errs[1], entities.ErrInvalidStep)
	} else {
		require.ErrorIs(t, errs[0], entities.ErrInvalidStep)
		require.NoError(t, errs[1])
	}
	require.Zero(t, f.uc.locks.len())
}

func TestWatcher_ForgetWinsOverInFlightRefresh(t *testing.T) {
	f := newFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil).Once()
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil).Once().
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	f.media.On("Run", mock.Anything, mock.Anything).Return(prefetch.Report{})

	_, err := f.uc.RaffleDetail(context.Background(), "R3")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		f.uc.watcher.RefreshAll(context.Background())
		close(done)
	}()
	<-started
	f.uc.watcher.Forget("R3")
	close(release)
	<-done

	_, ok := f.uc.watcher.snapshot("R3")
	require.False(t, ok)
	require.Empty(t, f.uc.watcher.Codes())
}

func TestWatcher_DropsIdleAndMissingRaffles(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		f := newFixture(t)
		f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil)
		f.media.On("Run", mock.Anything, mock.Anything).Return(prefetch.Report{})

		_, err := f.uc.RaffleDetail(context.Background(), "R3")
		require.NoError(t, err)

		f.clock.Advance(DefaultIdleTTL + time.Minute)
		f.uc.watcher.RefreshAll(context.Background())
		f.backend.AssertNumberOfCalls(t, "RaffleByCode", 1)
		require.Empty(t, f.uc.watcher.Codes())
	})

	t.Run("viewed recently", func(t *testing.T) {
		f := newFixture(t)
		f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil)
		f.media.On("Run", mock.Anything, mock.Anything).Return(prefetch.Report{})

		_, err := f.uc.RaffleDetail(context.Background(), "R3")
		require.NoError(t, err)
		f.clock.Advance(DefaultIdleTTL - time.Minute)
		_, err = f.uc.RaffleDetail(context.Background(), "R3")
		require.NoError(t, err)

		f.clock.Advance(2 * time.Minute)
		f.uc.watcher.RefreshAll(context.Background())
		f.backend.AssertNumberOfCalls(t, "RaffleByCode", 2)
		require.Equal(t, []string{"R3"}, f.uc.watcher.Codes())
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil).Once()
		f.backend.On("RaffleByCode", mock.Anything, "R3").
			Return(entities.Raffle{}, &backend.APIError{Status: http.StatusNotFound, Message: "Rifa no encontrada"}).Once()
		f.media.On("Run", mock.Anything, mock.Anything).Return(prefetch.Report{})

		_, err := f.uc.RaffleDetail(context.Background(), "R3")
		require.NoError(t, err)

		f.uc.watcher.RefreshAll(context.Background())
		require.Empty(t, f.uc.watcher.Codes())
	})
}

func TestUsecase_PurgeExpiredSessions(t *testing.T) {
	f := newFixture(t)
	f.backend.On("RaffleByCode", mock.Anything, "R3").Return(sampleRaffle(false), nil)
	_, err := f.uc.StartCheckout(context.Background(), "R3")
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)
	f.uc.purgeExpiredSessions(context.Background())
	_, err = f.sessions.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)
	f.uc.purgeExpiredSessions(context.Background())
	_, err = f.sessions.GetSession(context.Background(), "sess-1")
	require.ErrorIs(t, err, entities.ErrSessionNotFound)
}

func TestUsecase_CleanupSessionsStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.uc.opts.PurgeInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.uc.CleanupSessions(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session cleanup did not stop")
	}
}
