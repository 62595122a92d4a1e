package handlers_fiber

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"raffle-storefront/internal/api"
	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
	"raffle-storefront/internal/mapper"
	"raffle-storefront/internal/usecase/domain"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) respondSession(c *fiber.Ctx, status int, sess *checkout.Session, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(status).JSON(mapper.ToAPICheckout(sess))
}

type stepFunc func(ctx context.Context, id string) (*checkout.Session, error)

func (h *Handler) runStep(c *fiber.Ctx, id string, step stepFunc) error {
	sess, err := step(c.UserContext(), id)
	return h.respondSession(c, http.StatusOK, sess, err)
}

// PostCheckout opens a checkout session for a raffle.
func (h *Handler) PostCheckout(c *fiber.Ctx) error {
	var body api.StartCheckoutJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.StartCheckout(c.UserContext(), body.RaffleCode)
	return h.respondSession(c, http.StatusCreated, sess, err)
}

// GetCheckout returns a session.
func (h *Handler) GetCheckout(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.Checkout)
}

// PostCheckoutParticipate opens the terms step.
func (h *Handler) PostCheckoutParticipate(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.Participate)
}

// PostCheckoutTermsAccept accepts the terms.
func (h *Handler) PostCheckoutTermsAccept(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.AcceptTerms)
}

// PostCheckoutTermsReject rejects the terms.
func (h *Handler) PostCheckoutTermsReject(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.RejectTerms)
}

// PostCheckoutBack returns to the previous step.
func (h *Handler) PostCheckoutBack(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.Back)
}

// PostCheckoutCancel abandons the wizard.
func (h *Handler) PostCheckoutCancel(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.CancelCheckout)
}

// PostCheckoutInstructionsAck opens the voucher upload.
func (h *Handler) PostCheckoutInstructionsAck(c *fiber.Ctx, id string) error {
	return h.runStep(c, id, h.uc.AcknowledgeInstructions)
}

// PutCheckoutTickets replaces the picked ticket numbers.
func (h *Handler) PutCheckoutTickets(c *fiber.Ctx, id string) error {
	var body api.PutTicketsJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.SelectTickets(c.UserContext(), id, body.Numbers)
	return h.respondSession(c, http.StatusOK, sess, err)
}

// PutCheckoutQuantity sets the random ticket count.
func (h *Handler) PutCheckoutQuantity(c *fiber.Ctx, id string) error {
	var body api.PutQuantityJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.SetQuantity(c.UserContext(), id, body.Quantity)
	return h.respondSession(c, http.StatusOK, sess, err)
}

// PostCheckoutPaymentMethod selects the payment method and bank.
func (h *Handler) PostCheckoutPaymentMethod(c *fiber.Ctx, id string) error {
	var body api.PaymentMethodJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.ChoosePaymentMethod(c.UserContext(), id, body.Method, body.BankId)
	return h.respondSession(c, http.StatusOK, sess, err)
}

// PostCheckoutUserData submits the buyer form.
func (h *Handler) PostCheckoutUserData(c *fiber.Ctx, id string) error {
	var body api.UserDataJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.SubmitUserData(c.UserContext(), id, domain.UserData{
		Name:        body.Name,
		Email:       body.Email,
		CountryCode: body.CountryCode,
		Phone:       body.Phone,
	})
	return h.respondSession(c, http.StatusOK, sess, err)
}

// PostCheckoutVoucher uploads the payment receipt and completes the purchase.
// Accepts JSON {voucher: dataURL} or a multipart "voucher" file.
func (h *Handler) PostCheckoutVoucher(c *fiber.Ctx, id string) error {
	voucher, err := readVoucher(c)
	if err != nil {
		return writeError(c, err)
	}
	sess, err := h.uc.UploadVoucher(c.UserContext(), id, voucher)
	if err != nil {
		h.log.Infow("voucher upload failed", "session_id", id, "err", err)
	}
	return h.respondSession(c, http.StatusOK, sess, err)
}

func readVoucher(c *fiber.Ctx) (string, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var body api.VoucherJSONRequestBody
		if err := c.BodyParser(&body); err != nil {
			return "", fmt.Errorf("%w: invalid body", entities.ErrInvalidArgument)
		}
		return body.Voucher, nil
	}

	fh, err := c.FormFile("voucher")
	if err != nil {
		return "", fmt.Errorf("%w: voucher file is required", entities.ErrInvalidArgument)
	}
	if fh.Size > domain.MaxVoucherBytes {
		return "", fmt.Errorf("%w: voucher exceeds 10MB", entities.ErrInvalidArgument)
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open voucher: %v", entities.ErrInvalidArgument, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxVoucherBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read voucher: %v", entities.ErrInvalidArgument, err)
	}
	mediaType := fh.Header.Get(fiber.HeaderContentType)
	if mediaType == "" || mediaType == fiber.MIMEOctetStream {
		mediaType = http.DetectContentType(data)
	}
	return entities.EncodeDataURL(mediaType, data), nil
}
