package payment

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "styledecor-server/errors"
	"styledecor-server/model"
)

const (
	successPath = "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/dashboard/payment-cancelled"

	statusPaid = "paid"

	messageDuplicate = "Already Exist"
	messageNotPaid   = "payment not completed"
)

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*model.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionId string) (*model.CheckoutSession, error)
}

type BookingWriter interface {
	MarkBookingPaid(ctx context.Context, id primitive.ObjectID, trackingId string) (*model.UpdateResult, error)
}

// PaymentStore must reject a second payment for the same transaction id with
// an error wrapping ErrDuplicateRecord.
type PaymentStore interface {
	FindPaymentByTransaction(ctx context.Context, transactionId string) (*model.Payment, error)
	InsertPayment(ctx context.Context, payment *model.Payment) (*model.InsertResult, error)
}

type EventPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, payment *model.Payment) error
}

type Recorder interface {
	CheckoutCreated(currency string)
	ConfirmationHandled(outcome model.ConfirmOutcome)
	ObservePaymentAmount(amount float64, currency string)
}

type Options struct {
	SiteDomain     string
	Currency       string
	StorageTimeout time.Duration
}

// Orchestrator runs the two halves of a checkout: opening a hosted session and
// confirming it once the customer comes back.
type Orchestrator struct {
	provider Provider
	bookings BookingWriter
	payments PaymentStore
	events   EventPublisher
	metrics  Recorder
	opts     Options
	log      *zap.Logger

	now    func() time.Time
	random io.Reader
}

func NewOrchestrator(
	provider Provider,
	bookings BookingWriter,
	payments PaymentStore,
	events EventPublisher,
	metrics Recorder,
	opts Options,
	log *zap.Logger,
) *Orchestrator {
	opts.SiteDomain = strings.TrimRight(opts.SiteDomain, "/")
	return &Orchestrator{
		provider: provider,
		bookings: bookings,
		payments: payments,
		events:   events,
		metrics:  metrics,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// Initiate opens a checkout session for one booking and returns the hosted
// page URL. Nothing is written locally.
func (o *Orchestrator) Initiate(ctx context.Context, req model.CheckoutRequest) (string, error) {
	session, err := o.provider.CreateCheckoutSession(ctx, SessionRequest{
		ProductName:   "Please pay for " + req.ServiceName,
		UnitAmount:    MinorUnits(req.ServicePrice),
		Currency:      o.opts.Currency,
		CustomerEmail: req.UserEmail,
		SuccessURL:    o.opts.SiteDomain + successPath,
		CancelURL:     o.opts.SiteDomain + cancelPath,
		Metadata: map[string]string{
			"bookingId":   req.BookingId,
			"serviceName": req.ServiceName,
		},
	})
	if err != nil {
		return "", err
	}

	o.metrics.CheckoutCreated(o.opts.Currency)
	o.log.Info("checkout initiated",
		zap.String("sessionId", session.Id),
		zap.String("bookingId", req.BookingId),
	)
	return session.URL, nil
}

// Confirm verifies the session with the provider and records the payment at
// most once per transaction. The payment insert comes before the booking
// update so that the unique transaction index decides concurrent races; the
// event is sent by whichever call actually moves the booking to paid.
func (o *Orchestrator) Confirm(ctx context.Context, sessionId string) (*model.ConfirmResult, error) {
	if sessionId == "" {
		return nil, apperrors.MissingParameter("session_id")
	}

	result, err := o.confirm(ctx, sessionId)
	if err != nil {
		o.metrics.ConfirmationHandled(model.OutcomeFailed)
		o.log.Error("payment confirmation failed", zap.String("sessionId", sessionId), zap.Error(err))
		return nil, err
	}
	o.metrics.ConfirmationHandled(result.Outcome)
	return result, nil
}

func (o *Orchestrator) confirm(ctx context.Context, sessionId string) (*model.ConfirmResult, error) {
	session, err := o.provider.GetCheckoutSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	transactionId := session.PaymentIntentId

	if transactionId != "" {
		existing, err := o.findPayment(ctx, transactionId)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return o.duplicate(ctx, existing)
		}
	}

	if session.PaymentStatus != statusPaid {
		o.log.Info("checkout session not paid",
			zap.String("sessionId", sessionId),
			zap.String("paymentStatus", session.PaymentStatus),
		)
		return &model.ConfirmResult{Outcome: model.OutcomeNotPaid, Success: false, Message: messageNotPaid}, nil
	}
	if transactionId == "" {
		return nil, apperrors.NewProviderError(providerName, "retrieve checkout session", 0,
			errors.New("paid session has no payment intent"))
	}

	rawBookingId := session.Metadata["bookingId"]
	bookingId, err := primitive.ObjectIDFromHex(rawBookingId)
	if err != nil {
		return nil, apperrors.InvalidIdentifier(rawBookingId)
	}

	now := o.now().UTC()
	trackingId, err := NewTrackingID(now, o.random)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		Id:            primitive.NewObjectID(),
		Amount:        MajorUnits(session.AmountTotal),
		Currency:      session.Currency,
		CustomerEmail: session.CustomerEmail,
		BookingId:     bookingId.Hex(),
		ServiceName:   session.Metadata["serviceName"],
		TransactionId: transactionId,
		PaymentStatus: session.PaymentStatus,
		PaidAt:        now,
		TrackingId:    trackingId,
	}

	inserted, err := o.insertPayment(ctx, payment)
	if errors.Is(err, apperrors.ErrDuplicateRecord) {
		winner, findErr := o.findPayment(ctx, transactionId)
		if findErr != nil {
			return nil, findErr
		}
		if winner == nil {
			return nil, err
		}
		o.log.Info("concurrent confirmation lost the race", zap.String("transactionId", transactionId))
		return o.duplicate(ctx, winner)
	}
	if err != nil {
		return nil, err
	}

	updated, err := o.markBookingPaid(ctx, bookingId, trackingId)
	if err != nil {
		return nil, err
	}
	if updated.ModifiedCount > 0 {
		o.publish(ctx, payment)
	}
	o.metrics.ObservePaymentAmount(payment.Amount, payment.Currency)
	o.log.Info("payment confirmed",
		zap.String("transactionId", transactionId),
		zap.String("trackingId", trackingId),
		zap.String("bookingId", payment.BookingId),
	)

	return &model.ConfirmResult{
		Outcome:       model.OutcomePaid,
		Success:       true,
		BookingUpdate: updated,
		PaymentInsert: inserted,
		TrackingId:    trackingId,
		TransactionId: transactionId,
	}, nil
}

// duplicate answers for an already recorded payment. The booking update is
// reapplied first: an earlier confirmation may have stored the payment and
// failed before marking the booking. The update only matches unpaid
// bookings, so a booking still changes once.
func (o *Orchestrator) duplicate(ctx context.Context, existing *model.Payment) (*model.ConfirmResult, error) {
	bookingId, err := primitive.ObjectIDFromHex(existing.BookingId)
	if err != nil {
		return nil, apperrors.InvalidIdentifier(existing.BookingId)
	}

	updated, err := o.markBookingPaid(ctx, bookingId, existing.TrackingId)
	if err != nil {
		return nil, err
	}
	if updated.ModifiedCount > 0 {
		o.log.Info("booking marked paid on repeated confirmation",
			zap.String("transactionId", existing.TransactionId),
			zap.String("trackingId", existing.TrackingId),
		)
		o.publish(ctx, existing)
	}
	return duplicateResult(existing), nil
}

// publish failures are logged only; the payment is already durable.
func (o *Orchestrator) publish(ctx context.Context, payment *model.Payment) {
	if err := o.events.PublishPaymentConfirmed(ctx, payment); err != nil {
		o.log.Warn("payment confirmed event not published",
			zap.String("transactionId", payment.TransactionId),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) findPayment(ctx context.Context, transactionId string) (*model.Payment, error) {
	ctx, cancel := o.storageContext(ctx)
	defer cancel()
	return o.payments.FindPaymentByTransaction(ctx, transactionId)
}

func (o *Orchestrator) insertPayment(ctx context.Context, payment *model.Payment) (*model.InsertResult, error) {
	ctx, cancel := o.storageContext(ctx)
	defer cancel()
	return o.payments.InsertPayment(ctx, payment)
}

func (o *Orchestrator) markBookingPaid(ctx context.Context, id primitive.ObjectID, trackingId string) (*model.UpdateResult, error) {
	ctx, cancel := o.storageContext(ctx)
	defer cancel()
	return o.bookings.MarkBookingPaid(ctx, id, trackingId)
}

func (o *Orchestrator) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.opts.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.opts.StorageTimeout)
}

func duplicateResult(existing *model.Payment) *model.ConfirmResult {
	return &model.ConfirmResult{
		Outcome:       model.OutcomeDuplicate,
		Success:       true,
		Duplicate:     true,
		Message:       messageDuplicate,
		TrackingId:    existing.TrackingId,
		TransactionId: existing.TransactionId,
	}
}

// MinorUnits converts a price to the provider's smallest currency unit.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func MajorUnits(amount int64) float64 {
	return float64(amount) / 100
}
