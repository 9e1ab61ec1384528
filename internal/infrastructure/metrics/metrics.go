// Package metrics exposes prometheus counters for payment outcomes, status
// polling and notification handling.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	paymentsStarted *prometheus.CounterVec
	paymentsDone    *prometheus.CounterVec
	pollAttempts    prometheus.Counter
	notifications   *prometheus.CounterVec
}

// NewRecorder registers the counters on reg. All Recorder methods are safe on
// a nil receiver so instrumentation stays optional.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		paymentsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "acquiring_payments_started_total",
			Help: "Payment processes started, by payment method.",
		}, []string{"method"}),
		paymentsDone: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "acquiring_payments_completed_total",
			Help: "Payment processes reaching a terminal state, by method and outcome.",
		}, []string{"method", "outcome"}),
		pollAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "acquiring_status_poll_attempts_total",
			Help: "Individual GetState polling attempts.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "acquiring_notifications_total",
			Help: "Bank callback notifications, by verification result.",
		}, []string{"result"}),
	}
}

func (r *Recorder) PaymentStarted(method string) {
	if r == nil {
		return
	}
	r.paymentsStarted.WithLabelValues(method).Inc()
}

func (r *Recorder) PaymentSucceeded(method string) {
	if r == nil {
		return
	}
	r.paymentsDone.WithLabelValues(method, "success").Inc()
}

func (r *Recorder) PaymentFailed(method string) {
	if r == nil {
		return
	}
	r.paymentsDone.WithLabelValues(method, "failure").Inc()
}

func (r *Recorder) PollAttempt() {
	if r == nil {
		return
	}
	r.pollAttempts.Inc()
}

func (r *Recorder) Notification(result string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(result).Inc()
}
