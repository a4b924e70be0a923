// Package metrics exposes prometheus counters for gateway activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the gateway's prometheus collectors. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	ordersCreated   prometheus.Counter
	paymentsCreated *prometheus.CounterVec
	paymentsSettled *prometheus.CounterVec
}

// New registers the gateway collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_orders_created_total",
			Help: "Orders created.",
		}),
		paymentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_payments_created_total",
			Help: "Payments created, by method.",
		}, []string{"method"}),
		paymentsSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_payments_settled_total",
			Help: "Payments settled, by method and outcome.",
		}, []string{"method", "status"}),
	}
}

// OrderCreated records one created order.
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// PaymentCreated records one created payment.
func (m *Metrics) PaymentCreated(method string) {
	if m == nil {
		return
	}
	m.paymentsCreated.WithLabelValues(method).Inc()
}

// PaymentSettled records one settled payment.
func (m *Metrics) PaymentSettled(method, status string) {
	if m == nil {
		return
	}
	m.paymentsSettled.WithLabelValues(method, status).Inc()
}
