package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	PlacementSessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_sessions_started_total",
			Help: "Placement sessions started, by test mode",
		},
		[]string{"mode"},
	)

	PlacementSessionsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_sessions_finished_total",
			Help: "Placement sessions reaching a terminal status, by mode and status",
		},
		[]string{"mode", "status"},
	)

	PlacementAnswersSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "placement_answers_submitted_total",
			Help: "Answers accepted by the placement engine",
		},
	)

	PlacementCertificatesSignaled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "placement_certificates_signaled_total",
			Help: "Certificate-eligible signals published",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PlacementSessionsStarted)
	prometheus.MustRegister(PlacementSessionsFinished)
	prometheus.MustRegister(PlacementAnswersSubmitted)
	prometheus.MustRegister(PlacementCertificatesSignaled)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
