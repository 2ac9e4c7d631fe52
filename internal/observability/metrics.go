package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_http_requests_total",
			Help: "Total number of HTTP requests processed by the roommate service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roommate_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roommate_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roommate_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	swipesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_swipes_total",
			Help: "Swipes recorded, by action.",
		},
		[]string{"action"},
	)
	matchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_matches_total",
			Help: "Matches created, by status.",
		},
		[]string{"status"},
	)
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_messages_total",
			Help: "Messages sent, by entry point.",
		},
		[]string{"kind"},
	)
	premiumDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_premium_denied_total",
			Help: "Requests rejected by the premium gate, by feature.",
		},
		[]string{"feature"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		swipesTotal,
		matchesTotal,
		messagesTotal,
		premiumDeniedTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the default registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncSwipe(action string) {
	swipesTotal.WithLabelValues(action).Inc()
}

func IncMatch(status string) {
	matchesTotal.WithLabelValues(status).Inc()
}

func IncMessage(kind string) {
	messagesTotal.WithLabelValues(kind).Inc()
}

func IncPremiumDenied(feature string) {
	premiumDeniedTotal.WithLabelValues(feature).Inc()
}
