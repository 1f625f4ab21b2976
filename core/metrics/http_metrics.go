package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds.
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AdjustmentCounter counts stock adjustment requests by outcome.
	AdjustmentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "Total number of stock adjustment requests by outcome",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

// Register registers all collectors with the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDurationHistogram)
		prometheus.MustRegister(AdjustmentCounter)
	})
}

// Middleware records request count and duration for every echo request.
func Middleware() echo.MiddlewareFunc {
	Register()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			RequestCounter.WithLabelValues(method, path, status).Inc()
			RequestDurationHistogram.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
