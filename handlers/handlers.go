package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"styledecor-server/errors"
	"styledecor-server/model"
)

type ServiceStore interface {
	ListServices(ctx context.Context, limit int64) ([]model.CatalogEntry, error)
	GetService(ctx context.Context, id primitive.ObjectID) (model.CatalogEntry, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *model.Booking) (*model.InsertResult, error)
	ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error)
	DeleteBooking(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error)
}

type PaymentReader interface {
	ListPayments(ctx context.Context, email string) ([]model.Payment, error)
}

type Checkout interface {
	Initiate(ctx context.Context, req model.CheckoutRequest) (string, error)
	Confirm(ctx context.Context, sessionId string) (*model.ConfirmResult, error)
}

// Handler serves every HTTP endpoint. Dependencies are injected once at
// start-up.
type Handler struct {
	services       ServiceStore
	bookings       BookingStore
	payments       PaymentReader
	checkout       Checkout
	validate       *validator.Validate
	storageTimeout time.Duration
	log            *zap.Logger
	now            func() time.Time
}

func New(services ServiceStore, bookings BookingStore, payments PaymentReader, checkout Checkout, storageTimeout time.Duration, log *zap.Logger) *Handler {
	return &Handler{
		services:       services,
		bookings:       bookings,
		payments:       payments,
		checkout:       checkout,
		validate:       validator.New(),
		storageTimeout: storageTimeout,
		log:            log,
		now:            time.Now,
	}
}

func (h *Handler) GetRoot(c *fiber.Ctx) error {
	return c.SendString("StyleDecor Server is Running")
}

func (h *Handler) storageContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.storageTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.storageTimeout)
}

// parseBody decodes and validates a JSON request body into out.
func (h *Handler) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.InvalidPayload(err)
	}
	if err := h.validate.Struct(out); err != nil {
		return errors.InvalidPayload(err)
	}
	return nil
}

func parseObjectId(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errors.InvalidIdentifier(raw)
	}
	return id, nil
}

// fail logs server-side failures before writing the envelope.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Status(err) >= fiber.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return errors.Raise(c, err)
}
