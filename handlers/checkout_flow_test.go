package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "styledecor-server/errors"
	"styledecor-server/events"
	"styledecor-server/metrics"
	"styledecor-server/model"
	"styledecor-server/payment"
)

// ledger keeps bookings and payments in memory with the same guarantees as
// the database store: one payment per transaction id and a booking update
// that only touches unpaid bookings.
type ledger struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*model.Booking
	payments []model.Payment
}

func newLedger() *ledger {
	return &ledger{bookings: map[primitive.ObjectID]*model.Booking{}}
}

func (l *ledger) CreateBooking(_ context.Context, booking *model.Booking) (*model.InsertResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored := *booking
	l.bookings[booking.Id] = &stored
	return &model.InsertResult{Acknowledged: true, InsertedId: booking.Id.Hex()}, nil
}

func (l *ledger) ListBookingsByEmail(_ context.Context, email string) ([]model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bookings := []model.Booking{}
	for _, booking := range l.bookings {
		if booking.UserEmail == email {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (l *ledger) DeleteBooking(_ context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.bookings[id]; !ok {
		return &model.DeleteResult{Acknowledged: true}, nil
	}
	delete(l.bookings, id)
	return &model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (l *ledger) MarkBookingPaid(_ context.Context, id primitive.ObjectID, trackingId string) (*model.UpdateResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	booking, ok := l.bookings[id]
	if !ok || booking.Paid {
		return &model.UpdateResult{Acknowledged: true}, nil
	}
	booking.Status = model.BookingStatusSuccess
	booking.Paid = true
	booking.TrackingId = trackingId
	return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (l *ledger) FindPaymentByTransaction(_ context.Context, transactionId string) (*model.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.payments {
		if p.TransactionId == transactionId {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (l *ledger) InsertPayment(_ context.Context, p *model.Payment) (*model.InsertResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.payments {
		if existing.TransactionId == p.TransactionId {
			return nil, fmt.Errorf("%w: payment for transaction %s", apperrors.ErrDuplicateRecord, p.TransactionId)
		}
	}
	l.payments = append(l.payments, *p)
	return &model.InsertResult{Acknowledged: true, InsertedId: p.Id.Hex()}, nil
}

func (l *ledger) ListPayments(_ context.Context, email string) ([]model.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	payments := []model.Payment{}
	for _, p := range l.payments {
		if email == "" || p.CustomerEmail == email {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// hostedCheckout stands in for the payment provider. Sessions it creates are
// reported as paid when retrieved.
type hostedCheckout struct {
	mu       sync.Mutex
	sessions map[string]payment.SessionRequest
}

func (h *hostedCheckout) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*model.CheckoutSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := fmt.Sprintf("cs_test_%d", len(h.sessions)+1)
	h.sessions[id] = req
	return &model.CheckoutSession{Id: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (h *hostedCheckout) GetCheckoutSession(_ context.Context, sessionId string) (*model.CheckoutSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	req, ok := h.sessions[sessionId]
	if !ok {
		return nil, apperrors.NewProviderError("stripe", "retrieve checkout session", http.StatusNotFound, fmt.Errorf("no such checkout.session: %s", sessionId))
	}
	return &model.CheckoutSession{
		Id:              sessionId,
		PaymentStatus:   "paid",
		PaymentIntentId: "pi_123",
		AmountTotal:     req.UnitAmount,
		Currency:        req.Currency,
		CustomerEmail:   req.CustomerEmail,
		Metadata:        req.Metadata,
	}, nil
}

func send(t *testing.T, app *fiber.App, method, route string, body interface{}, bearer string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, route, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, resBody
}

func TestBookingCheckoutFlow(t *testing.T) {
	store := newLedger()
	provider := &hostedCheckout{sessions: map[string]payment.SessionRequest{}}
	orchestrator := payment.NewOrchestrator(
		provider, store, store,
		events.NopPublisher{},
		metrics.NewPaymentMetrics(prometheus.NewRegistry()),
		payment.Options{SiteDomain: "https://styledecor.example.com/", Currency: "bdt", StorageTimeout: time.Second},
		zap.NewNop(),
	)
	app := mount(New(&mockServiceStore{}, store, store, orchestrator, time.Second, zap.NewNop()))

	code, body := send(t, app, http.MethodPost, "/bookings", fiber.Map{
		"userEmail":    "a@x.com",
		"serviceId":    weddingId.Hex(),
		"serviceName":  "Wedding Decor",
		"servicePrice": 500,
	}, "")
	require.Equal(t, 200, code, string(body))
	var created model.InsertResult
	require.NoError(t, json.Unmarshal(body, &created))
	require.Len(t, created.InsertedId, 24)

	code, body = send(t, app, http.MethodPost, "/create-checkout-session", fiber.Map{
		"servicePrice": 500,
		"serviceName":  "Wedding Decor",
		"bookingId":    created.InsertedId,
		"userEmail":    "a@x.com",
	}, "")
	require.Equal(t, 200, code, string(body))
	assert.Contains(t, string(body), `"url":"https://checkout.stripe.com/c/pay/cs_test_1"`)
	assert.Equal(t, int64(50000), provider.sessions["cs_test_1"].UnitAmount)
	assert.Equal(t, "https://styledecor.example.com/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}", provider.sessions["cs_test_1"].SuccessURL)

	code, body = send(t, app, http.MethodPatch, "/payment-success?session_id=cs_test_1", nil, "")
	require.Equal(t, 200, code, string(body))
	var confirmed model.ConfirmResult
	require.NoError(t, json.Unmarshal(body, &confirmed))
	assert.True(t, confirmed.Success)
	assert.False(t, confirmed.Duplicate)
	assert.Equal(t, "pi_123", confirmed.TransactionId)
	assert.Regexp(t, `^STDR-\d{8}-[0-9A-F]{6}$`, confirmed.TrackingId)
	require.NotNil(t, confirmed.BookingUpdate)
	assert.Equal(t, int64(1), confirmed.BookingUpdate.ModifiedCount)

	code, body = send(t, app, http.MethodGet, "/bookings?email=a@x.com", nil, "")
	require.Equal(t, 200, code, string(body))
	var bookings []model.Booking
	require.NoError(t, json.Unmarshal(body, &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, model.BookingStatusSuccess, bookings[0].Status)
	assert.True(t, bookings[0].Paid)
	assert.Equal(t, confirmed.TrackingId, bookings[0].TrackingId)

	code, body = send(t, app, http.MethodPatch, "/payment-success?session_id=cs_test_1", nil, "")
	require.Equal(t, 200, code, string(body))
	assert.Contains(t, string(body), `"duplicate":true`)
	assert.Contains(t, string(body), confirmed.TrackingId)

	code, body = send(t, app, http.MethodGet, "/payments", nil, token(t, "a@x.com", ""))
	require.Equal(t, 200, code, string(body))
	var payments []model.Payment
	require.NoError(t, json.Unmarshal(body, &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, 500.0, payments[0].Amount)
	assert.Equal(t, "pi_123", payments[0].TransactionId)
	assert.Equal(t, created.InsertedId, payments[0].BookingId)
	assert.Equal(t, confirmed.TrackingId, payments[0].TrackingId)
}
