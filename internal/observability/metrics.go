package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_http_requests_total",
			Help: "Total number of HTTP requests processed by the platform service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oasis_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oasis_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oasis_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	chatSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_chat_sessions_total",
			Help: "Total number of chat session lifecycle events.",
		},
		[]string{"event"},
	)
	sessionRevenueCents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oasis_session_revenue_cents_total",
			Help: "Accumulated settled chat session totals, in cents.",
		},
	)
	streamPresenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_stream_presence_total",
			Help: "Total number of stream viewer joins and leaves.",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		chatSessionsTotal,
		sessionRevenueCents,
		streamPresenceTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
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

func IncSessionEvent(event string) {
	chatSessionsTotal.WithLabelValues(event).Inc()
}

func AddSessionRevenue(amount float64) {
	if amount > 0 {
		sessionRevenueCents.Add(amount * 100)
	}
}

func IncStreamPresence(event string) {
	streamPresenceTotal.WithLabelValues(event).Inc()
}
