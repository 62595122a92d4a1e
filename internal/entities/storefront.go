package entities

import (
	"net"
	"strings"
	"time"
)

// MediaReport summarizes a media prefetch run.
type MediaReport struct {
	Total  int `json:"total"`
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

// RaffleCard is a raffle as listed on the storefront.
type RaffleCard struct {
	Raffle         Raffle
	Prizes         []Prize
	FormattedPrice string
}

// Storefront is the landing page of a client.
type Storefront struct {
	Domain  string
	Client  Client
	Raffles []RaffleCard
	Media   MediaReport
}

// RaffleDetail is the raffle page with everything needed to start a purchase.
type RaffleDetail struct {
	Raffle           Raffle
	Prizes           []Prize
	PaymentMethods   []PaymentMethod
	PurchasedNumbers []int
	AvailableNumbers []int
	FormattedPrice   string
	Upcoming         bool
	Media            MediaReport
	RefreshedAt      time.Time
}

// DomainFromHost derives the client domain from a Host header:
// "localhost" stays as is, otherwise the first label is used.
func DomainFromHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || host == "localhost" {
		return "localhost"
	}
	label, _, _ := strings.Cut(host, ".")
	return label
}
