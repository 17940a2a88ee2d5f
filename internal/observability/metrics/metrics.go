package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes application-level prometheus instruments.
type Metrics struct {
	salesPosted           *prometheus.CounterVec
	paymentsPosted        *prometheus.CounterVec
	creditLimitRejections prometheus.Counter
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
}

func New() (*Metrics, error) {
	m := &Metrics{
		salesPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agroflow_sales_posted_total",
			Help: "Sales committed, by payment type.",
		}, []string{"payment_type"}),
		paymentsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agroflow_payments_posted_total",
			Help: "Payments committed, by method.",
		}, []string{"method"}),
		creditLimitRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agroflow_credit_limit_rejections_total",
			Help: "Credit sales rejected by limit enforcement.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agroflow_http_requests_total",
			Help: "HTTP requests, by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agroflow_http_request_duration_seconds",
			Help:    "HTTP request latency, by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	collectors := []prometheus.Collector{
		m.salesPosted,
		m.paymentsPosted,
		m.creditLimitRejections,
		m.httpRequests,
		m.httpDuration,
	}
	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) SalePosted(paymentType string) {
	if m == nil {
		return
	}
	m.salesPosted.WithLabelValues(paymentType).Inc()
}

func (m *Metrics) PaymentPosted(method string) {
	if m == nil {
		return
	}
	m.paymentsPosted.WithLabelValues(method).Inc()
}

func (m *Metrics) CreditLimitRejected() {
	if m == nil {
		return
	}
	m.creditLimitRejections.Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
