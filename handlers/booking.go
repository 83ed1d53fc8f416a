package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"styledecor-server/errors"
	"styledecor-server/model"
)

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	req := new(model.BookingRequest)
	if err := h.parseBody(c, req); err != nil {
		return h.fail(c, err)
	}
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.ServiceName = strings.TrimSpace(req.ServiceName)

	booking := model.NewBooking(*req, h.now())

	ctx, cancel := h.storageContext(c)
	defer cancel()

	res, err := h.bookings.CreateBooking(ctx, booking)
	if err != nil {
		return h.fail(c, err)
	}

	h.log.Info("booking created", zap.String("bookingId", booking.Id.Hex()), zap.String("serviceId", booking.ServiceId))
	return c.JSON(res)
}

// GetBookings requires the email query parameter whatever else is passed.
func (h *Handler) GetBookings(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return h.fail(c, errors.MissingParameter("email"))
	}

	ctx, cancel := h.storageContext(c)
	defer cancel()

	bookings, err := h.bookings.ListBookingsByEmail(ctx, email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(bookings)
}

func (h *Handler) DeleteBooking(c *fiber.Ctx) error {
	id, err := parseObjectId(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.storageContext(c)
	defer cancel()

	res, err := h.bookings.DeleteBooking(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}
