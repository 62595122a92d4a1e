package handlers_fiber

import (
	"errors"
	"net/http"

	"raffle-storefront/internal/api"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/gateway/drive"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INTERNAL
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = api.INVALIDARGUMENT
		msg = err.Error()
	case errors.Is(err, entities.ErrSessionNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "checkout session not found"
	case errors.Is(err, entities.ErrNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "resource not found"
	case errors.Is(err, entities.ErrInvalidStep):
		status = http.StatusConflict
		code = api.INVALIDSTEP
		msg = err.Error()
	case errors.Is(err, entities.ErrCheckoutFailed):
		status = http.StatusBadGateway
		code = api.CHECKOUTFAILED
		msg = err.Error()
	case errors.Is(err, drive.ErrCredentialsMissing):
		status = http.StatusBadGateway
		code = api.UPSTREAM
		msg = "media store is not configured"
	case errors.Is(err, entities.ErrUpstream):
		status = http.StatusBadGateway
		code = api.UPSTREAM
		msg = err.Error()
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: api.ErrorBody{Code: code, Message: msg}}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
}
