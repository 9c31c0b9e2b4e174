package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeReplayed = "replayed"
	OutcomeFailed   = "failed"
	OutcomePartial  = "partial"
)

// CheckoutMetrics records cart completion results.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	orders   prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of cart completion in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Cart completions by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created",
		Help: "Seller orders created by cart completion.",
	})
	reg.MustRegister(duration, total, orders)
	return &CheckoutMetrics{
		duration: duration,
		total:    total,
		orders:   orders,
	}
}

// Observe records one completion attempt.
func (c *CheckoutMetrics) Observe(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	c.total.WithLabelValues(outcome).Inc()
}

// AddOrders counts orders persisted by a completion.
func (c *CheckoutMetrics) AddOrders(n int) {
	if c == nil || c.orders == nil || n <= 0 {
		return
	}
	c.orders.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
