// Package entities contains core storefront entities.
package entities

import "strings"

// TicketOwner is the buyer attached to a purchased ticket.
type TicketOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PurchasedTicket is a ticket number already taken in a raffle.
type PurchasedTicket struct {
	Number int         `json:"number"`
	User   TicketOwner `json:"user"`
	IsPaid bool        `json:"isPaid"`
}

// PurchaseUser is the account attached to a verified purchase.
type PurchaseUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// PurchaseTicket is the ticket half of a verified purchase.
type PurchaseTicket struct {
	ID           int64        `json:"id"`
	TicketNumber int          `json:"ticketNumber"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
	User         PurchaseUser `json:"user"`
}

// PurchasePayment is the payment half of a verified purchase.
type PurchasePayment struct {
	ID          int64        `json:"id"`
	Method      string       `json:"method"`
	IsValidated string       `json:"isValidated"`
	Voucher     string       `json:"voucher"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
	User        PurchaseUser `json:"user"`
}

// Purchase pairs a ticket with the payment that bought it.
type Purchase struct {
	Ticket  PurchaseTicket  `json:"ticket"`
	Payment PurchasePayment `json:"payment"`
}

// PurchaseLookup selects purchases by email or by full phone number.
type PurchaseLookup struct {
	Email string
	Phone string
}

// Buyer is the contact data captured during checkout.
type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentStatusLabel normalizes the backend's validation status for display.
func PaymentStatusLabel(status string) string {
	switch strings.ToLower(status) {
	case "aprobado", "aprobada":
		return "Aprobado"
	case "validado", "validada":
		return "Validado"
	case "pendiente":
		return "Pendiente"
	case "rechazado", "rechazada":
		return "Rechazado"
	default:
		return status
	}
}

// PurchasedNumbers returns the set of taken ticket numbers.
func PurchasedNumbers(tickets []PurchasedTicket) map[int]struct{} {
	set := make(map[int]struct{}, len(tickets))
	for _, t := range tickets {
		set[t.Number] = struct{}{}
	}
	return set
}

// AvailableNumbers lists numbers in [0, limit) not yet purchased.
func AvailableNumbers(limit int, tickets []PurchasedTicket) []int {
	limit = max(limit, 0)
	taken := PurchasedNumbers(tickets)
	out := make([]int, 0, limit)
	for n := 0; n < limit; n++ {
		if _, ok := taken[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
