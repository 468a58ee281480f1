package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsportal_dispatch_total",
			Help: "Outbound dispatches by channel (email, sms, call, lookup) and outcome",
		},
		[]string{"channel", "outcome"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smsportal_dispatch_duration_seconds",
			Help:    "Time spent waiting on the external transport",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"channel"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsportal_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Dispatch records one transport call. err == nil counts as success.
func Dispatch(channel string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	dispatchTotal.WithLabelValues(channel, outcome).Inc()
	dispatchDuration.WithLabelValues(channel).Observe(time.Since(started).Seconds())
}

func Login(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
