package payment

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"go.uber.org/zap"

	apperrors "styledecor-server/errors"
	"styledecor-server/model"
)

const providerName = "stripe"

// SessionRequest is everything the provider needs to open a hosted checkout
// page for a single line item.
type SessionRequest struct {
	ProductName   string
	UnitAmount    int64
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type StripeOptions struct {
	SecretKey string
	Timeout   time.Duration
	// BaseURL overrides the API endpoint, used against local stubs.
	BaseURL string
}

// StripeProvider talks to Stripe Checkout through stripe-go. Network retries
// are disabled; every call is bounded by Timeout.
type StripeProvider struct {
	api     *client.API
	timeout time.Duration
	log     *zap.Logger
}

func NewStripeProvider(opts StripeOptions, log *zap.Logger) *StripeProvider {
	backendConfig := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if opts.BaseURL != "" {
		backendConfig.URL = stripe.String(opts.BaseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)

	api := &client.API{}
	api.Init(opts.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	return &StripeProvider{api: api, timeout: opts.Timeout, log: log}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*model.CheckoutSession, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
					UnitAmount: stripe.Int64(req.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, p.providerError("create checkout session", err)
	}

	p.log.Info("checkout session created", zap.String("sessionId", session.ID))
	return toCheckoutSession(session), nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionId string) (*model.CheckoutSession, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.Get(sessionId, params)
	if err != nil {
		return nil, p.providerError("retrieve checkout session", err)
	}
	return toCheckoutSession(session), nil
}

func (p *StripeProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *StripeProvider) providerError(op string, err error) error {
	status := 0
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		status = stripeErr.HTTPStatusCode
		p.log.Error("stripe request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("type", string(stripeErr.Type)),
			zap.String("requestId", stripeErr.RequestID),
		)
	} else {
		p.log.Error("stripe request failed", zap.String("op", op), zap.Error(err))
	}
	return apperrors.NewProviderError(providerName, op, status, err)
}

func toCheckoutSession(session *stripe.CheckoutSession) *model.CheckoutSession {
	out := &model.CheckoutSession{
		Id:            session.ID,
		URL:           session.URL,
		PaymentStatus: string(session.PaymentStatus),
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		CustomerEmail: session.CustomerEmail,
		Metadata:      session.Metadata,
	}
	if session.PaymentIntent != nil {
		out.PaymentIntentId = session.PaymentIntent.ID
	}
	if out.CustomerEmail == "" && session.CustomerDetails != nil {
		out.CustomerEmail = session.CustomerDetails.Email
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}
