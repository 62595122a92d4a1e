package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"raffle-storefront/internal/entities"
)

// RegisterRequest creates (or resolves) the buyer account.
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Client      int64  `json:"client"`
}

// PaymentRequest attaches a voucher to a raffle purchase.
type PaymentRequest struct {
	Voucher string `json:"voucher"`
	Method  string `json:"method"`
	Raffle  int64  `json:"raffle"`
	User    int64  `json:"user"`
}

// TicketRequest buys tickets against a created payment.
type TicketRequest struct {
	UserID               int64 `json:"userId"`
	NumberOfTicketsToBuy int   `json:"numberOfTicketsToBuy"`
	RaffleID             int64 `json:"raffleId"`
	PaymentID            int64 `json:"paymentId"`
	IsCash               bool  `json:"isCash"`
	TicketNumbers        []int `json:"ticketNumbers,omitempty"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// ClientByDomain resolves a storefront owner by subdomain.
func (c *Client) ClientByDomain(ctx context.Context, domain string) (entities.Client, error) {
	var out entities.Client
	err := c.get(ctx, "/client/"+url.PathEscape(domain)+"/search", nil, "No se pudo cargar el cliente", &out)
	if err != nil {
		return entities.Client{}, fmt.Errorf("client %q: %w", domain, err)
	}
	return out, nil
}

// ActiveRaffles lists active raffles of a client.
func (c *Client) ActiveRaffles(ctx context.Context, clientID int64) ([]entities.Raffle, error) {
	var out []entities.Raffle
	err := c.get(ctx, fmt.Sprintf("/raffle/active/client/%d", clientID), nil, "No se pudieron cargar las rifas", &out)
	if err != nil {
		return nil, fmt.Errorf("active raffles of client %d: %w", clientID, err)
	}
	return out, nil
}

// RaffleByCode loads a raffle by its public code.
func (c *Client) RaffleByCode(ctx context.Context, code string) (entities.Raffle, error) {
	var out entities.Raffle
	err := c.get(ctx, "/raffle/by-code/"+url.PathEscape(code), nil, "No se pudo cargar la rifa", &out)
	if err != nil {
		return entities.Raffle{}, fmt.Errorf("raffle %q: %w", code, err)
	}
	return out, nil
}

// PurchasedTickets lists numbers already taken in a raffle.
func (c *Client) PurchasedTickets(ctx context.Context, raffleID int64) ([]entities.PurchasedTicket, error) {
	var out []entities.PurchasedTicket
	err := c.get(ctx, fmt.Sprintf("/raffle/%d/purchased-tickets", raffleID), nil, "No se pudieron cargar los tickets", &out)
	if err != nil {
		return nil, fmt.Errorf("purchased tickets of raffle %d: %w", raffleID, err)
	}
	return out, nil
}

// VerifyPurchases looks purchases up by email or full phone number.
func (c *Client) VerifyPurchases(ctx context.Context, raffleID int64, lookup entities.PurchaseLookup) ([]entities.Purchase, error) {
	q := url.Values{}
	if email := strings.TrimSpace(lookup.Email); email != "" {
		q.Set("email", email)
	} else {
		q.Set("phone", lookup.Phone)
	}
	var out []entities.Purchase
	err := c.get(ctx, fmt.Sprintf("/raffle/%d/verify-purchases", raffleID), q, "No se pudieron obtener los tickets", &out)
	if err != nil {
		return nil, fmt.Errorf("verify purchases of raffle %d: %w", raffleID, err)
	}
	return out, nil
}

// RegisterUser registers the buyer and returns the user id.
func (c *Client) RegisterUser(ctx context.Context, req RegisterRequest) (int64, error) {
	var out idResponse
	if err := c.post(ctx, "/user/register", req, "Error al registrar el usuario", &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// CreatePayment submits the voucher and returns the payment id.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (int64, error) {
	var out idResponse
	if err := c.post(ctx, "/payment", req, "Error al crear el pago", &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// BuyTickets reserves tickets for a payment.
func (c *Client) BuyTickets(ctx context.Context, req TicketRequest) error {
	return c.post(ctx, "/ticket", req, "Error al comprar los tickets", nil)
}
