package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	paymentsInitiated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripnest",
			Name:      "payments_initiated_total",
			Help:      "Payment initiation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	paymentsVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripnest",
			Name:      "payments_verified_total",
			Help:      "Payment verification attempts by outcome.",
		},
		[]string{"outcome"},
	)

	notificationsEnqueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripnest",
			Name:      "notifications_enqueued_total",
			Help:      "Booking confirmation notifications enqueued.",
		},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripnest",
			Name:      "emails_sent_total",
			Help:      "Confirmation email deliveries by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(paymentsInitiated, paymentsVerified, notificationsEnqueued, emailsSent)
	})
}

func IncPaymentInitiated(outcome string) {
	paymentsInitiated.WithLabelValues(outcome).Inc()
}

func IncPaymentVerified(outcome string) {
	paymentsVerified.WithLabelValues(outcome).Inc()
}

func IncNotificationEnqueued() {
	notificationsEnqueued.Inc()
}

func IncEmailSent(outcome string) {
	emailsSent.WithLabelValues(outcome).Inc()
}
