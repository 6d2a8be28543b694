package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventbot", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventbot", Name: "handler_errors_total", Help: "Handler errors",
	})
	AirtableRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventbot", Name: "airtable_requests_total", Help: "Airtable API calls",
	}, []string{"table", "op", "status"})
	AirtableLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "eventbot", Name: "airtable_request_seconds", Help: "Airtable call latency",
		Buckets: prometheus.DefBuckets,
	})
	RateLimitWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "eventbot", Name: "rate_limit_wait_seconds", Help: "Time spent in the Airtable rate gate",
		Buckets: []float64{.01, .05, .1, .2, .5, 1, 2, 5},
	})
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventbot", Name: "notifications_total", Help: "Telegram notifications by outcome",
	}, []string{"kind", "outcome"})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, AirtableRequests, AirtableLatency, RateLimitWait, Notifications)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveAirtable(table, op, status string, d time.Duration) {
	AirtableRequests.WithLabelValues(table, op, status).Inc()
	AirtableLatency.Observe(d.Seconds())
}

func ObserveRateWait(d time.Duration) { RateLimitWait.Observe(d.Seconds()) }
