package handlers_fiber

import (
	"net/http"

	"raffle-storefront/internal/api"
	"raffle-storefront/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// GetStorefront returns the client landing page for the request host.
func (h *Handler) GetStorefront(c *fiber.Ctx, params api.GetStorefrontParams) error {
	sf, err := h.uc.Storefront(c.UserContext(), c.Hostname(), params.Domain)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIStorefront(sf))
}

// GetCountries returns the dial-code catalogue.
func (h *Handler) GetCountries(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(mapper.ToAPICountries(h.uc.Countries()))
}

// GetMedia streams a cached media file.
func (h *Handler) GetMedia(c *fiber.Ctx, id string) error {
	media, err := h.uc.Media(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, media.MediaType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=604800")
	return c.Status(http.StatusOK).Send(media.Data)
}
