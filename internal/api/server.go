package api

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/storefront)
	GetStorefront(c *fiber.Ctx, params GetStorefrontParams) error
	// (GET /api/countries)
	GetCountries(c *fiber.Ctx) error
	// (GET /api/raffles/{code})
	GetRaffle(c *fiber.Ctx, code string) error
	// (GET /api/raffles/{id}/verify-purchases)
	GetVerifyPurchases(c *fiber.Ctx, id int64, params VerifyPurchasesParams) error
	// (GET /media/{id})
	GetMedia(c *fiber.Ctx, id string) error
	// (POST /api/checkout)
	PostCheckout(c *fiber.Ctx) error
	// (GET /api/checkout/{id})
	GetCheckout(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/participate)
	PostCheckoutParticipate(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/terms/accept)
	PostCheckoutTermsAccept(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/terms/reject)
	PostCheckoutTermsReject(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/back)
	PostCheckoutBack(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/cancel)
	PostCheckoutCancel(c *fiber.Ctx, id string) error
	// (PUT /api/checkout/{id}/tickets)
	PutCheckoutTickets(c *fiber.Ctx, id string) error
	// (PUT /api/checkout/{id}/quantity)
	PutCheckoutQuantity(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/payment-method)
	PostCheckoutPaymentMethod(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/user-data)
	PostCheckoutUserData(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/instructions/ack)
	PostCheckoutInstructionsAck(c *fiber.Ctx, id string) error
	// (POST /api/checkout/{id}/voucher)
	PostCheckoutVoucher(c *fiber.Ctx, id string) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// MiddlewareFunc is a fiber middleware applied to every registered route.
type MiddlewareFunc fiber.Handler

// FiberServerOptions configures route registration.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []MiddlewareFunc
}

func badParam(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: ErrorBody{Code: INVALIDARGUMENT, Message: msg}})
}

// GetStorefront operation middleware
func (siw *ServerInterfaceWrapper) GetStorefront(c *fiber.Ctx) error {
	var params GetStorefrontParams
	if err := c.QueryParser(&params); err != nil {
		return badParam(c, "invalid format for query parameters")
	}
	return siw.Handler.GetStorefront(c, params)
}

// GetCountries operation middleware
func (siw *ServerInterfaceWrapper) GetCountries(c *fiber.Ctx) error {
	return siw.Handler.GetCountries(c)
}

// GetRaffle operation middleware
func (siw *ServerInterfaceWrapper) GetRaffle(c *fiber.Ctx) error {
	return siw.Handler.GetRaffle(c, c.Params("code"))
}

// GetVerifyPurchases operation middleware
func (siw *ServerInterfaceWrapper) GetVerifyPurchases(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badParam(c, "invalid format for parameter id")
	}
	var params VerifyPurchasesParams
	if err := c.QueryParser(&params); err != nil {
		return badParam(c, "invalid format for query parameters")
	}
	return siw.Handler.GetVerifyPurchases(c, id, params)
}

// GetMedia operation middleware
func (siw *ServerInterfaceWrapper) GetMedia(c *fiber.Ctx) error {
	return siw.Handler.GetMedia(c, c.Params("id"))
}

// PostCheckout operation middleware
func (siw *ServerInterfaceWrapper) PostCheckout(c *fiber.Ctx) error {
	return siw.Handler.PostCheckout(c)
}

func (siw *ServerInterfaceWrapper) withID(fn func(*fiber.Ctx, string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fn(c, c.Params("id"))
	}
}

// RegisterHandlers creates http.Handler with routing matching the API.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options.
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	for _, m := range options.Middlewares {
		router.Use(fiber.Handler(m))
	}

	base := options.BaseURL

	router.Get(base+"/api/storefront", wrapper.GetStorefront)
	router.Get(base+"/api/countries", wrapper.GetCountries)
	router.Get(base+"/api/raffles/:code", wrapper.GetRaffle)
	router.Get(base+"/api/raffles/:id/verify-purchases", wrapper.GetVerifyPurchases)
	router.Get(base+"/media/:id", wrapper.GetMedia)

	router.Post(base+"/api/checkout", wrapper.PostCheckout)
	router.Get(base+"/api/checkout/:id", wrapper.withID(si.GetCheckout))
	router.Post(base+"/api/checkout/:id/participate", wrapper.withID(si.PostCheckoutParticipate))
	router.Post(base+"/api/checkout/:id/terms/accept", wrapper.withID(si.PostCheckoutTermsAccept))
	router.Post(base+"/api/checkout/:id/terms/reject", wrapper.withID(si.PostCheckoutTermsReject))
	router.Post(base+"/api/checkout/:id/back", wrapper.withID(si.PostCheckoutBack))
	router.Post(base+"/api/checkout/:id/cancel", wrapper.withID(si.PostCheckoutCancel))
	router.Put(base+"/api/checkout/:id/tickets", wrapper.withID(si.PutCheckoutTickets))
	router.Put(base+"/api/checkout/:id/quantity", wrapper.withID(si.PutCheckoutQuantity))
	router.Post(base+"/api/checkout/:id/payment-method", wrapper.withID(si.PostCheckoutPaymentMethod))
	router.Post(base+"/api/checkout/:id/user-data", wrapper.withID(si.PostCheckoutUserData))
	router.Post(base+"/api/checkout/:id/instructions/ack", wrapper.withID(si.PostCheckoutInstructionsAck))
	router.Post(base+"/api/checkout/:id/voucher", wrapper.withID(si.PostCheckoutVoucher))
}
