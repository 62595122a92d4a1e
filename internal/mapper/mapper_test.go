package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
)

func TestToAPIPrizesLinksMedia(t *testing.T) {
	got := ToAPIPrizes(entities.ParsePrizes([]string{"Moto@img1", "Casco"}))
	require.Len(t, got, 2)
	require.Equal(t, "/media/img1", *got[0].ImageURL)
	require.Nil(t, got[1].ImageURL)
}

func TestToAPIPurchasesLabels(t *testing.T) {
	got := ToAPIPurchases([]entities.Purchase{{
		Ticket:  entities.PurchaseTicket{ID: 1, TicketNumber: 7, User: entities.PurchaseUser{Name: "Ana"}},
		Payment: entities.PurchasePayment{ID: 2, IsValidated: "aprobada"},
	}})
	require.Equal(t, "0007", got[0].TicketNumber)
	require.Equal(t, "Aprobado", got[0].StatusLabel)
	require.Equal(t, "Ana", got[0].BuyerName)
}

func TestToAPICheckoutInstructions(t *testing.T) {
	r := entities.Raffle{
		ID:          1,
		TicketPrice: "3",
		MinTickets:  2,
		PaymentData: []entities.PaymentData{{ID: 9, Method: "Zelle", Identification: "pay@acme.test"}},
	}
	s := checkout.NewSession("s1", r, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Nil(t, ToAPICheckout(s).Instructions)

	require.NoError(t, s.Participate())
	require.NoError(t, s.AcceptTerms())
	require.NoError(t, s.ChoosePaymentMethod("Zelle", 0))
	require.NoError(t, s.SubmitUserData("Ana", "a@b.co", "+1", "555 0100"))

	out := ToAPICheckout(s)
	require.Equal(t, "payment_instructions", out.Step)
	require.NotNil(t, out.Instructions)
	require.Equal(t, "6.00", out.Instructions.Amount)
	require.Equal(t, "pay@acme.test", out.Instructions.Rif)
	require.Equal(t, "+15550100", out.Buyer.Phone)
}
