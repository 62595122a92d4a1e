// Package entities contains core storefront entities.
package entities

// PaymentData is one account a buyer can send funds to.
type PaymentData struct {
	ID             int64  `json:"id"`
	Method         string `json:"method"`
	Name           string `json:"name"`
	Identification string `json:"identification"`
	AccountNumber  string `json:"accountNumber"`
	PhoneNumber    string `json:"phoneNumber"`
	Bank           string `json:"bank"`
	AccountType    string `json:"accountType"`
	Logo           string `json:"logo"`
	Visible        *bool  `json:"visible,omitempty"`
}

// IsVisible treats an absent flag as visible.
func (p PaymentData) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Bank is a destination account inside a payment method group.
type Bank struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoURL       string `json:"logoURL,omitempty"`
	Rif           string `json:"rif,omitempty"`
	Phone         string `json:"phone,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountType   string `json:"accountType,omitempty"`
}

// PaymentMethod groups every visible account sharing a method name.
type PaymentMethod struct {
	ID         int    `json:"id"`
	Method     string `json:"method"`
	Name       string `json:"name"`
	LogoURL    string `json:"logoURL,omitempty"`
	MinTickets int    `json:"minTickets"`
	Banks      []Bank `json:"banks"`
}

// FindBank returns the bank with the given id.
func (m PaymentMethod) FindBank(id int64) (Bank, bool) {
	for _, b := range m.Banks {
		if b.ID == id {
			return b, true
		}
	}
	return Bank{}, false
}

// GroupPaymentMethods groups visible payment data by method in first-seen order.
func GroupPaymentMethods(data []PaymentData, minTickets int) []PaymentMethod {
	if minTickets <= 0 {
		minTickets = 1
	}
	index := make(map[string]int)
	methods := make([]PaymentMethod, 0)
	for _, p := range data {
		if !p.IsVisible() {
			continue
		}
		i, ok := index[p.Method]
		if !ok {
			methods = append(methods, PaymentMethod{
				ID:         len(methods) + 1,
				Method:     p.Method,
				Name:       p.Method,
				LogoURL:    p.Logo,
				MinTickets: minTickets,
			})
			i = len(methods) - 1
			index[p.Method] = i
		}
		name := p.Bank
		if name == "" {
			name = p.Method
		}
		methods[i].Banks = append(methods[i].Banks, Bank{
			ID:            p.ID,
			Name:          name,
			LogoURL:       p.Logo,
			Rif:           p.Identification,
			Phone:         p.PhoneNumber,
			AccountNumber: p.AccountNumber,
			AccountType:   p.AccountType,
		})
	}
	return methods
}

// FindPaymentMethod looks a group up by its method name.
func FindPaymentMethod(methods []PaymentMethod, method string) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.Method == method {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
