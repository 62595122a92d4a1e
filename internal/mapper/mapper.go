// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"time"

	"raffle-storefront/internal/api"
	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/format"
)

// MediaPath is where the HTTP layer serves cached media.
const MediaPath = "/media/"

// ToAPIClient maps entities.Client to transport model.
func ToAPIClient(c entities.Client) api.Client {
	return api.Client{
		Id:          c.ID,
		Name:        c.Name,
		FantasyName: c.FantasyName,
		LogoURL:     c.LogoURL,
		BannerURL:   c.BannerURL,
		Banner2URL:  c.Banner2URL,
		VideoURL:    c.VideoURL,
		Whatsapp:    c.Whatsapp,
		Instagram:   c.Instagram,
	}
}

// ToAPIPrizes maps parsed prizes and links their images to the media endpoint.
func ToAPIPrizes(prizes []entities.Prize) []api.Prize {
	out := make([]api.Prize, 0, len(prizes))
	for _, p := range prizes {
		item := api.Prize{Name: p.Name, ImageId: p.ImageID}
		if p.ImageID != nil {
			u := MediaPath + *p.ImageID
			item.ImageURL = &u
		}
		out = append(out, item)
	}
	return out
}

// ToAPIRaffle maps a raffle with its display price.
func ToAPIRaffle(r entities.Raffle, prizes []entities.Prize, formattedPrice string) api.Raffle {
	out := api.Raffle{
		Id:              r.ID,
		InnerCode:       r.InnerCode,
		Name:            r.Name,
		Extra:           r.Extra,
		TicketPrice:     r.TicketPrice,
		TicketCurrency:  r.TicketCurrency,
		FormattedPrice:  formattedPrice,
		Prizes:          ToAPIPrizes(prizes),
		SelectNumber:    r.SelectNumber,
		TicketLimit:     r.TicketLimit,
		MinTickets:      r.MinimumTickets(),
		MaxTickets:      r.MaximumTickets(),
		TicketsCount:    r.TicketsCount,
		NumberOfWinners: r.NumberOfWinners,
		Date:            r.Date,
	}
	if r.Client != nil {
		c := ToAPIClient(*r.Client)
		out.Client = &c
	}
	return out
}

// ToAPIStorefront maps the landing page.
func ToAPIStorefront(s entities.Storefront) api.Storefront {
	raffles := make([]api.Raffle, 0, len(s.Raffles))
	for _, card := range s.Raffles {
		raffles = append(raffles, ToAPIRaffle(card.Raffle, card.Prizes, card.FormattedPrice))
	}
	return api.Storefront{
		Domain:  s.Domain,
		Client:  ToAPIClient(s.Client),
		Raffles: raffles,
		Media:   ToAPIMediaReport(s.Media),
	}
}

// ToAPIMediaReport maps a prefetch report.
func ToAPIMediaReport(r entities.MediaReport) api.MediaReport {
	return api.MediaReport{Total: r.Total, Loaded: r.Loaded, Failed: r.Failed}
}

// ToAPIBank maps entities.Bank to transport model.
func ToAPIBank(b entities.Bank) api.Bank {
	return api.Bank{
		Id:            b.ID,
		Name:          b.Name,
		LogoURL:       b.LogoURL,
		Rif:           b.Rif,
		Phone:         b.Phone,
		AccountNumber: b.AccountNumber,
		AccountType:   b.AccountType,
	}
}

// ToAPIPaymentMethods maps grouped payment methods.
func ToAPIPaymentMethods(methods []entities.PaymentMethod) []api.PaymentMethod {
	out := make([]api.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		banks := make([]api.Bank, 0, len(m.Banks))
		for _, b := range m.Banks {
			banks = append(banks, ToAPIBank(b))
		}
		out = append(out, api.PaymentMethod{
			Id:         m.ID,
			Method:     m.Method,
			Name:       m.Name,
			LogoURL:    m.LogoURL,
			MinTickets: m.MinTickets,
			Banks:      banks,
		})
	}
	return out
}

// ToAPITicketNumbers zero-pads ticket numbers for display.
func ToAPITicketNumbers(numbers []int) []string {
	out := make([]string, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, format.FormatTicketNumber(n))
	}
	return out
}

// ToAPIRaffleDetail maps the raffle page.
func ToAPIRaffleDetail(d entities.RaffleDetail) api.RaffleDetail {
	out := api.RaffleDetail{
		Raffle:           ToAPIRaffle(d.Raffle, d.Prizes, d.FormattedPrice),
		PaymentMethods:   ToAPIPaymentMethods(d.PaymentMethods),
		PurchasedNumbers: ToAPITicketNumbers(d.PurchasedNumbers),
		Upcoming:         d.Upcoming,
		Media:            ToAPIMediaReport(d.Media),
		RefreshedAt:      d.RefreshedAt.UTC().Format(time.RFC3339),
	}
	if d.Raffle.SelectNumber {
		out.AvailableNumbers = ToAPITicketNumbers(d.AvailableNumbers)
	}
	return out
}

// ToAPIPurchases maps verified purchases with display status labels.
func ToAPIPurchases(purchases []entities.Purchase) []api.Purchase {
	out := make([]api.Purchase, 0, len(purchases))
	for _, p := range purchases {
		buyer := p.Ticket.User.Name
		if buyer == "" {
			buyer = p.Payment.User.Name
		}
		out = append(out, api.Purchase{
			TicketId:     p.Ticket.ID,
			TicketNumber: format.FormatTicketNumber(p.Ticket.TicketNumber),
			PaymentId:    p.Payment.ID,
			Method:       p.Payment.Method,
			Status:       p.Payment.IsValidated,
			StatusLabel:  entities.PaymentStatusLabel(p.Payment.IsValidated),
			BuyerName:    buyer,
			CreatedAt:    p.Ticket.CreatedAt,
		})
	}
	return out
}

// ToAPICountries maps the dial-code catalogue.
func ToAPICountries(countries []entities.Country) []api.Country {
	out := make([]api.Country, 0, len(countries))
	for _, c := range countries {
		out = append(out, api.Country{Code: c.Code, Name: c.Name, DialCode: c.DialCode, Flag: c.Flag})
	}
	return out
}

// ToAPICheckout maps a wizard session, with instructions once they are available.
func ToAPICheckout(s *checkout.Session) api.CheckoutSession {
	out := api.CheckoutSession{
		Id:              s.ID,
		RaffleId:        s.RaffleID,
		RaffleCode:      s.RaffleCode,
		Step:            string(s.Step),
		SelectNumber:    s.SelectNumber,
		SelectedTickets: ToAPITicketNumbers(s.SelectedTickets),
		Quantity:        s.Quantity,
		TicketCount:     s.TicketCount(),
		Total:           s.Total(),
		PaymentMethods:  ToAPIPaymentMethods(s.PaymentMethods),
		Method:          s.Method,
		UserId:          s.UserID,
		PaymentId:       s.PaymentID,
		LastError:       s.LastError,
		UpdatedAt:       s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.Bank != nil {
		b := ToAPIBank(*s.Bank)
		out.Bank = &b
	}
	if s.Buyer != nil {
		out.Buyer = &api.Buyer{Name: s.Buyer.Name, Email: s.Buyer.Email, Phone: s.Buyer.Phone}
	}
	if ins, err := s.Instructions(); err == nil {
		out.Instructions = &api.Instructions{
			Method:        ins.Method,
			Bank:          ins.Bank,
			Rif:           ins.Rif,
			Phone:         ins.Phone,
			AccountNumber: ins.AccountNumber,
			AccountType:   ins.AccountType,
			Amount:        ins.Amount,
			Currency:      ins.Currency,
		}
	}
	return out
}
