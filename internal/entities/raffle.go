// Package entities contains core storefront entities.
package entities

import (
	"strings"
	"time"
)

// Raffle is a sellable campaign as returned by the backend.
type Raffle struct {
	ID              int64         `json:"id"`
	InnerCode       string        `json:"innerCode"`
	Name            string        `json:"name"`
	Extra           string        `json:"extra,omitempty"`
	TicketPrice     string        `json:"ticketPrice"`
	TicketCurrency  string        `json:"ticketCurrency"`
	Prizes          []string      `json:"prizes"`
	SelectNumber    bool          `json:"selectNumber"`
	TicketLimit     int           `json:"ticketLimit,omitempty"`
	MinTickets      int           `json:"minTickets,omitempty"`
	TicketsCount    int           `json:"ticketsCount,omitempty"`
	NumberOfWinners int           `json:"numberOfWinners,omitempty"`
	Date            string        `json:"date,omitempty"`
	Client          *Client       `json:"client,omitempty"`
	PaymentData     []PaymentData `json:"paymentData,omitempty"`
}

// Prize is a parsed "name@imageId" prize entry.
type Prize struct {
	Name    string
	ImageID *string
}

// ParsePrize splits a prize string on its first '@'.
func ParsePrize(raw string) Prize {
	name, image, ok := strings.Cut(raw, "@")
	if !ok {
		return Prize{Name: strings.TrimSpace(raw)}
	}
	p := Prize{Name: strings.TrimSpace(name)}
	if image = strings.TrimSpace(image); image != "" {
		p.ImageID = &image
	}
	return p
}

// ParsePrizes parses every prize of a raffle.
func ParsePrizes(raw []string) []Prize {
	out := make([]Prize, 0, len(raw))
	for _, r := range raw {
		out = append(out, ParsePrize(r))
	}
	return out
}

// MinimumTickets returns minTickets, defaulting to 1.
func (r Raffle) MinimumTickets() int {
	if r.MinTickets > 0 {
		return r.MinTickets
	}
	return 1
}

// MaximumTickets returns ticketLimit, defaulting to 999.
func (r Raffle) MaximumTickets() int {
	if r.TicketLimit > 0 {
		return r.TicketLimit
	}
	return 999
}

// DrawDate parses the raffle date; ok is false when absent or malformed.
func (r Raffle) DrawDate() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MediaIDs collects client logo and video, prize images and payment logos.
func (r Raffle) MediaIDs() []string {
	var ids []string
	if r.Client != nil {
		ids = appendRef(ids, r.Client.LogoURL)
		ids = appendRef(ids, r.Client.VideoURL)
	}
	ids = append(ids, r.PrizeImageIDs()...)
	for _, p := range r.PaymentData {
		if logo := strings.TrimSpace(p.Logo); logo != "" {
			ids = append(ids, logo)
		}
	}
	return ids
}

// PrizeImageIDs returns image ids of the prizes that carry one.
func (r Raffle) PrizeImageIDs() []string {
	var ids []string
	for _, p := range ParsePrizes(r.Prizes) {
		if p.ImageID != nil {
			ids = append(ids, *p.ImageID)
		}
	}
	return ids
}
