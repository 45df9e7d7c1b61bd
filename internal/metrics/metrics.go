// Package metrics holds the Prometheus collectors of the alert service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AlertDispatches counts dispatch attempts by outcome (sent, no_recipients, failed)
	AlertDispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadwatch_alert_dispatches_total",
		Help: "Accident alert dispatch attempts by outcome",
	}, []string{"outcome"})
	// AlertRecipients observes the recipient count of each sent alert
	AlertRecipients = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadwatch_alert_recipients",
		Help:    "Number of recipients per sent alert",
		Buckets: []float64{1, 2, 3, 5, 8, 13},
	})
	// AlertDispatchDuration observes time spent in the mail transport
	AlertDispatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadwatch_alert_dispatch_duration_seconds",
		Help:    "Time spent in the mail transport per dispatch",
		Buckets: prometheus.DefBuckets,
	})
	// AlertSessionsActive is the number of open alert sessions
	AlertSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roadwatch_alert_sessions_active",
		Help: "Alert sessions currently held in memory",
	})
	// AccidentLookups counts accident API lookups by result (found, empty, not_found, error, cache_hit)
	AccidentLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadwatch_accident_lookups_total",
		Help: "Accident provider lookups by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(AlertDispatches)
	prometheus.MustRegister(AlertRecipients)
	prometheus.MustRegister(AlertDispatchDuration)
	prometheus.MustRegister(AlertSessionsActive)
	prometheus.MustRegister(AccidentLookups)
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
