package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"styledecor-server/errors"
	"styledecor-server/middleware"
	"styledecor-server/model"
)

func (h *Handler) CreateCheckoutSession(c *fiber.Ctx) error {
	req := new(model.CheckoutRequest)
	if err := h.parseBody(c, req); err != nil {
		return h.fail(c, err)
	}

	url, err := h.checkout.Initiate(c.UserContext(), *req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// ConfirmPayment answers 402 while the provider has not collected the money.
func (h *Handler) ConfirmPayment(c *fiber.Ctx) error {
	result, err := h.checkout.Confirm(c.UserContext(), c.Query("session_id"))
	if err != nil {
		return h.fail(c, err)
	}
	if result.Outcome == model.OutcomeNotPaid {
		return c.Status(fiber.StatusPaymentRequired).JSON(result)
	}
	return c.JSON(result)
}

// GetPayments lets callers read their own payments; admins may read anyone's,
// or everything when no email is given.
func (h *Handler) GetPayments(c *fiber.Ctx) error {
	caller := middleware.CallerEmail(c)
	admin := middleware.IsAdmin(c)
	email := strings.TrimSpace(c.Query("email"))

	switch {
	case email != "" && !strings.EqualFold(email, caller) && !admin:
		return h.fail(c, fmt.Errorf("%w: cannot read payments of another customer", errors.ErrForbidden))
	case email == "" && !admin:
		email = caller
	}

	ctx, cancel := h.storageContext(c)
	defer cancel()

	payments, err := h.payments.ListPayments(ctx, email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(payments)
}
