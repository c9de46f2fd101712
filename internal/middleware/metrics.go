package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrabsence",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qrabsence",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ScanCounter tracks check-in scans, the platform's peak-load write path.
	// The outcome label stays closed-set to keep cardinality bounded.
	ScanCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrabsence",
			Name:      "attendance_scans_total",
			Help:      "Total number of attendance check-in scans by outcome",
		},
		[]string{"outcome"},
	)
)

// ScanCounter outcome values.
const (
	ScanAccepted = "accepted"
	ScanRejected = "rejected"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		requestCounter.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
