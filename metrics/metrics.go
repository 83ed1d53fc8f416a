package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"styledecor-server/model"
)

const namespace = "styledecor"

type PaymentMetrics struct {
	checkoutSessions *prometheus.CounterVec
	confirmations    *prometheus.CounterVec
	amounts          *prometheus.HistogramVec
}

func NewPaymentMetrics(registry *prometheus.Registry) *PaymentMetrics {
	factory := promauto.With(registry)
	return &PaymentMetrics{
		checkoutSessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkout_sessions_total",
				Help:      "Checkout sessions opened with the payment provider.",
			},
			[]string{"currency"},
		),
		confirmations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_confirmations_total",
				Help:      "Payment confirmations by outcome.",
			},
			[]string{"outcome"},
		),
		amounts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payment_amount",
				Help:      "Confirmed payment amounts in major currency units.",
				Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
			},
			[]string{"currency"},
		),
	}
}

func (m *PaymentMetrics) CheckoutCreated(currency string) {
	m.checkoutSessions.WithLabelValues(currency).Inc()
}

func (m *PaymentMetrics) ConfirmationHandled(outcome model.ConfirmOutcome) {
	m.confirmations.WithLabelValues(string(outcome)).Inc()
}

func (m *PaymentMetrics) ObservePaymentAmount(amount float64, currency string) {
	m.amounts.WithLabelValues(currency).Observe(amount)
}

// NewRegistry returns a private registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// Handler exposes the registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
