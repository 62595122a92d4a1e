// Package checkout implements the ticket purchase wizard.
package checkout

import (
	"time"

	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/format"
)

// Step is a position in the purchase wizard.
type Step string

const (
	StepBrowsing            Step = "browsing"
	StepTerms               Step = "terms"
	StepPaymentMethod       Step = "payment_method"
	StepUserData            Step = "user_data"
	StepPaymentInstructions Step = "payment_instructions"
	StepUploadVoucher       Step = "upload_voucher"
	StepCompleted           Step = "completed"
	StepCancelled           Step = "cancelled"
)

// Session is one buyer's progress through the wizard for a raffle.
type Session struct {
	ID         string `json:"id"`
	RaffleID   int64  `json:"raffleId"`
	RaffleCode string `json:"raffleCode"`
	ClientID   int64  `json:"clientId"`

	SelectNumber   bool                     `json:"selectNumber"`
	TicketLimit    int                      `json:"ticketLimit"`
	MinTickets     int                      `json:"minTickets"`
	TicketPrice    string                   `json:"ticketPrice"`
	TicketCurrency string                   `json:"ticketCurrency"`
	PaymentMethods []entities.PaymentMethod `json:"paymentMethods"`

	Step            Step            `json:"step"`
	SelectedTickets []int           `json:"selectedTickets"`
	Quantity        int             `json:"quantity"`
	Method          string          `json:"method,omitempty"`
	Bank            *entities.Bank  `json:"bank,omitempty"`
	Buyer           *entities.Buyer `json:"buyer,omitempty"`

	UserDataSubmitted        bool `json:"userDataSubmitted"`
	InstructionsAcknowledged bool `json:"instructionsAcknowledged"`

	UserID    int64  `json:"userId,omitempty"`
	PaymentID int64  `json:"paymentId,omitempty"`
	LastError string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession starts a wizard for raffle r in the browsing step.
func NewSession(id string, r entities.Raffle, now time.Time) *Session {
	var clientID int64
	if r.Client != nil {
		clientID = r.Client.ID
	}
	return &Session{
		ID:              id,
		RaffleID:        r.ID,
		RaffleCode:      r.InnerCode,
		ClientID:        clientID,
		SelectNumber:    r.SelectNumber,
		TicketLimit:     r.TicketLimit,
		MinTickets:      r.MinimumTickets(),
		TicketPrice:     r.TicketPrice,
		TicketCurrency:  r.TicketCurrency,
		PaymentMethods:  entities.GroupPaymentMethods(r.PaymentData, r.MinTickets),
		Step:            StepBrowsing,
		SelectedTickets: []int{},
		Quantity:        r.MinimumTickets(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MaxQuantity is the ticket limit, 999 when the raffle sets none.
func (s *Session) MaxQuantity() int {
	if s.TicketLimit > 0 {
		return s.TicketLimit
	}
	return 999
}

// TicketCount is the number of tickets the buyer is purchasing.
func (s *Session) TicketCount() int {
	if s.SelectNumber {
		return len(s.SelectedTickets)
	}
	return s.Quantity
}

// Total is price × ticket count with two decimals.
func (s *Session) Total() string {
	return format.TotalAmount(s.TicketPrice, s.TicketCount())
}

// Expired reports whether the session was last touched more than ttl ago.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.UpdatedAt) > ttl
}

// Touch stamps the session as modified.
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now
}
