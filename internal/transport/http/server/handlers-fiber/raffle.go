package handlers_fiber

import (
	"net/http"

	"raffle-storefront/internal/api"
	"raffle-storefront/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// GetRaffle returns the raffle page.
func (h *Handler) GetRaffle(c *fiber.Ctx, code string) error {
	d, err := h.uc.RaffleDetail(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIRaffleDetail(d))
}

// GetVerifyPurchases looks purchases up by email or phone.
func (h *Handler) GetVerifyPurchases(c *fiber.Ctx, id int64, params api.VerifyPurchasesParams) error {
	purchases, err := h.uc.VerifyPurchases(c.UserContext(), id, params.Email, params.Country, params.Phone)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPurchases(purchases))
}
