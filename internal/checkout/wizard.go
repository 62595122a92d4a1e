package checkout

import (
	"fmt"
	"slices"
	"strings"

	"raffle-storefront/internal/entities"
)

// Instructions tell the buyer where to send the payment.
type Instructions struct {
	Method        string `json:"method"`
	Bank          string `json:"bank"`
	Rif           string `json:"rif"`
	Phone         string `json:"phone"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

func (s *Session) expect(op string, steps ...Step) error {
	if slices.Contains(steps, s.Step) {
		return nil
	}
	return fmt.Errorf("%w: cannot %s from %s", entities.ErrInvalidStep, op, s.Step)
}

// Participate opens the terms modal.
func (s *Session) Participate() error {
	if err := s.expect("participate", StepBrowsing); err != nil {
		return err
	}
	s.Step = StepTerms
	s.LastError = ""
	return nil
}

// AcceptTerms moves on to payment method selection.
func (s *Session) AcceptTerms() error {
	if err := s.expect("accept terms", StepTerms); err != nil {
		return err
	}
	s.Step = StepPaymentMethod
	return nil
}

// RejectTerms returns to the raffle page.
func (s *Session) RejectTerms() error {
	if err := s.expect("reject terms", StepTerms); err != nil {
		return err
	}
	s.Step = StepBrowsing
	return nil
}

// SelectTickets replaces the picked numbers of a pick-your-number raffle.
func (s *Session) SelectTickets(numbers []int, purchased map[int]struct{}) error {
	if !s.SelectNumber {
		return fmt.Errorf("%w: raffle does not allow picking numbers", entities.ErrInvalidArgument)
	}
	if err := s.expect("select tickets", StepBrowsing, StepTerms, StepPaymentMethod); err != nil {
		return err
	}

	picked := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n < 0 || n >= s.TicketLimit {
			return fmt.Errorf("%w: ticket %d out of range", entities.ErrInvalidArgument, n)
		}
		if _, taken := purchased[n]; taken {
			return fmt.Errorf("%w: ticket %d already purchased", entities.ErrInvalidArgument, n)
		}
		picked = append(picked, n)
	}
	slices.Sort(picked)
	s.SelectedTickets = slices.Compact(picked)
	return nil
}

// SetQuantity sets how many random tickets to buy.
func (s *Session) SetQuantity(q int) error {
	if s.SelectNumber {
		return fmt.Errorf("%w: raffle requires picking numbers", entities.ErrInvalidArgument)
	}
	if err := s.expect("set quantity", StepBrowsing, StepTerms, StepPaymentMethod); err != nil {
		return err
	}
	if q < s.MinTickets || q > s.MaxQuantity() {
		return fmt.Errorf("%w: quantity must be between %d and %d", entities.ErrInvalidArgument, s.MinTickets, s.MaxQuantity())
	}
	s.Quantity = q
	return nil
}

// ChoosePaymentMethod picks a method and, when it has several, one of its banks.
func (s *Session) ChoosePaymentMethod(method string, bankID int64) error {
	if err := s.expect("choose payment method", StepPaymentMethod); err != nil {
		return err
	}
	m, ok := entities.FindPaymentMethod(s.PaymentMethods, method)
	if !ok {
		return fmt.Errorf("%w: unknown payment method %q", entities.ErrInvalidArgument, method)
	}

	var bank entities.Bank
	switch len(m.Banks) {
	case 0:
		return fmt.Errorf("%w: payment method %q has no accounts", entities.ErrInvalidArgument, method)
	case 1:
		bank = m.Banks[0]
	default:
		if bank, ok = m.FindBank(bankID); !ok {
			return fmt.Errorf("%w: select a bank for %q", entities.ErrInvalidArgument, method)
		}
	}

	if s.SelectNumber && len(s.SelectedTickets) == 0 {
		return fmt.Errorf("%w: select at least one ticket", entities.ErrInvalidArgument)
	}

	s.Method = m.Method
	s.Bank = &bank
	s.Step = StepUserData
	return nil
}

// SubmitUserData validates and stores the buyer's contact data.
func (s *Session) SubmitUserData(name, email, dialCode, phone string) error {
	if err := s.expect("submit user data", StepUserData); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%w: name, email and phone are required", entities.ErrInvalidArgument)
	}
	if !entities.ValidEmail(email) {
		return fmt.Errorf("%w: invalid email %q", entities.ErrInvalidArgument, email)
	}
	full := entities.FullPhone(dialCode, phone)
	if full == "" {
		return fmt.Errorf("%w: phone must contain digits", entities.ErrInvalidArgument)
	}

	s.Buyer = &entities.Buyer{Name: name, Email: email, Phone: full}
	s.UserDataSubmitted = true
	s.Step = StepPaymentInstructions
	return nil
}

// Instructions returns the transfer details; available once user data is submitted.
func (s *Session) Instructions() (Instructions, error) {
	if !s.UserDataSubmitted || s.Bank == nil {
		return Instructions{}, fmt.Errorf("%w: user data not submitted", entities.ErrInvalidStep)
	}
	return Instructions{
		Method:        s.Method,
		Bank:          s.Bank.Name,
		Rif:           s.Bank.Rif,
		Phone:         s.Bank.Phone,
		AccountNumber: s.Bank.AccountNumber,
		AccountType:   s.Bank.AccountType,
		Amount:        s.Total(),
		Currency:      s.TicketCurrency,
	}, nil
}

// AcknowledgeInstructions opens the voucher upload.
func (s *Session) AcknowledgeInstructions() error {
	if err := s.expect("acknowledge instructions", StepPaymentInstructions); err != nil {
		return err
	}
	if !s.UserDataSubmitted {
		return fmt.Errorf("%w: user data not submitted", entities.ErrInvalidStep)
	}
	s.InstructionsAcknowledged = true
	s.Step = StepUploadVoucher
	return nil
}

// ReadyForVoucher reports whether a voucher may be uploaded now.
func (s *Session) ReadyForVoucher() error {
	if err := s.expect("upload voucher", StepUploadVoucher); err != nil {
		return err
	}
	if !s.InstructionsAcknowledged {
		return fmt.Errorf("%w: instructions not acknowledged", entities.ErrInvalidStep)
	}
	return nil
}

// Complete records the created user and payment and finishes the wizard.
func (s *Session) Complete(userID, paymentID int64) error {
	if err := s.ReadyForVoucher(); err != nil {
		return err
	}
	s.UserID = userID
	s.PaymentID = paymentID
	s.LastError = ""
	s.Step = StepCompleted
	return nil
}

// Fail records a failed attempt without moving.
func (s *Session) Fail(msg string) {
	s.LastError = msg
}

// Back closes the current modal and returns to the previous one.
func (s *Session) Back() error {
	switch s.Step {
	case StepTerms:
		s.Step = StepBrowsing
	case StepPaymentMethod:
		s.Step = StepTerms
	case StepUserData:
		s.Step = StepPaymentMethod
	case StepPaymentInstructions:
		s.UserDataSubmitted = false
		s.Step = StepUserData
	case StepUploadVoucher:
		s.InstructionsAcknowledged = false
		s.Step = StepPaymentInstructions
	default:
		return fmt.Errorf("%w: cannot go back from %s", entities.ErrInvalidStep, s.Step)
	}
	s.LastError = ""
	return nil
}

// Cancel abandons the wizard.
func (s *Session) Cancel() error {
	if s.Step == StepCompleted {
		return fmt.Errorf("%w: purchase already completed", entities.ErrInvalidStep)
	}
	s.Step = StepCancelled
	return nil
}
