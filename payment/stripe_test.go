package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "styledecor-server/errors"
)

func newStubbedProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewStripeProvider(StripeOptions{
		SecretKey: "sk_test_123",
		Timeout:   2 * time.Second,
		BaseURL:   server.URL,
	}, zap.NewNop())
}

func TestStripeCreateCheckoutSession(t *testing.T) {
	provider := newStubbedProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "50000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "bdt", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Please pay for Wedding Decor", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "a@x.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "665f1c2e8a1b2c3d4e5f6a7b", r.PostForm.Get("metadata[bookingId]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`))
	})

	session, err := provider.CreateCheckoutSession(context.Background(), SessionRequest{
		ProductName:   "Please pay for Wedding Decor",
		UnitAmount:    50000,
		Currency:      "bdt",
		CustomerEmail: "a@x.com",
		SuccessURL:    "http://localhost:5173/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "http://localhost:5173/dashboard/payment-cancelled",
		Metadata:      map[string]string{"bookingId": "665f1c2e8a1b2c3d4e5f6a7b", "serviceName": "Wedding Decor"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.Id)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)
}

func TestStripeGetCheckoutSession(t *testing.T) {
	provider := newStubbedProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cs_test_1",
			"object": "checkout.session",
			"payment_status": "paid",
			"payment_intent": "pi_123",
			"amount_total": 50000,
			"currency": "bdt",
			"customer_email": null,
			"customer_details": {"email": "a@x.com"},
			"metadata": {"bookingId": "665f1c2e8a1b2c3d4e5f6a7b", "serviceName": "Wedding Decor"}
		}`))
	})

	session, err := provider.GetCheckoutSession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, "pi_123", session.PaymentIntentId)
	assert.Equal(t, int64(50000), session.AmountTotal)
	assert.Equal(t, "bdt", session.Currency)
	assert.Equal(t, "a@x.com", session.CustomerEmail)
	assert.Equal(t, "Wedding Decor", session.Metadata["serviceName"])
}

func TestStripeFailureIsProviderError(t *testing.T) {
	calls := 0
	provider := newStubbedProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session: cs_missing"}}`))
	})

	_, err := provider.GetCheckoutSession(context.Background(), "cs_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)

	var providerErr *apperrors.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusNotFound, providerErr.StatusCode)
	assert.Equal(t, "stripe", providerErr.Provider)
	assert.Equal(t, 1, calls)
}

func TestStripeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	provider := NewStripeProvider(StripeOptions{
		SecretKey: "sk_test_123",
		Timeout:   50 * time.Millisecond,
		BaseURL:   server.URL,
	}, zap.NewNop())

	_, err := provider.GetCheckoutSession(context.Background(), "cs_slow")
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)
}
