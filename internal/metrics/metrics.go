package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries its own registry so multiple instances (tests) never fight
// over global collector names.
type Metrics struct {
	registry *prometheus.Registry

	Checkouts        *prometheus.CounterVec
	CheckoutDuration prometheus.Histogram
	WebhookEvents    *prometheus.CounterVec
}

func New() *Metrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "checkouts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checkout",
		Name:      "duration_seconds",
		Help:      "End-to-end checkout latency, provider call included.",
		Buckets:   prometheus.DefBuckets,
	})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "webhook_events_total",
		Help:      "Provider webhook events by outcome.",
	}, []string{"provider", "outcome"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(checkouts, checkoutDuration, webhookEvents)

	return &Metrics{
		registry:         registry,
		Checkouts:        checkouts,
		CheckoutDuration: checkoutDuration,
		WebhookEvents:    webhookEvents,
	}
}

func (m *Metrics) ObserveCheckout(err error, elapsed time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Checkouts.WithLabelValues(result).Inc()
	m.CheckoutDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveWebhook(provider, outcome string) {
	m.WebhookEvents.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
