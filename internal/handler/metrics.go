package handler

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds the Prometheus collectors owned by the HTTP layer.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	DeliveriesTotal  *prometheus.CounterVec
	IngestedTotal    *prometheus.CounterVec
	LimiterKeys      prometheus.GaugeFunc
}{}

var metricsOnce sync.Once

// InitMetrics registers the HTTP metrics. trackedKeys, when non-nil, reports
// how many keys the in-process rate limiter currently holds. Only the first
// call has an effect.
func InitMetrics(trackedKeys func() int) {
	metricsOnce.Do(func() { initMetrics(trackedKeys) })
}

func initMetrics(trackedKeys func() int) {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cineflix_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cineflix_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineflix_deliveries_total",
			Help: "Videos delivered to users, by action.",
		},
		[]string{"action"},
	)

	Metrics.IngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineflix_ingested_videos_total",
			Help: "Videos added to the catalog, by category.",
		},
		[]string{"category"},
	)

	if trackedKeys != nil {
		Metrics.LimiterKeys = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "cineflix_ratelimit_tracked_keys",
				Help: "Number of keys held by the in-process rate limiter.",
			},
			func() float64 {
				return float64(trackedKeys())
			},
		)
		prometheus.MustRegister(Metrics.LimiterKeys)
	}

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.DeliveriesTotal,
		Metrics.IngestedTotal,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(); Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// fixedVideoRoutes are /api/videos/* paths that are not ids.
var fixedVideoRoutes = map[string]bool{"search": true, "popular": true, "sheet": true}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/videos/"):
		rest := strings.TrimPrefix(path, "/api/videos/")
		id, tail, _ := strings.Cut(rest, "/")
		if fixedVideoRoutes[id] {
			return path
		}
		if tail != "" {
			return "/api/videos/:videoId/" + tail
		}
		return "/api/videos/:videoId"
	case strings.HasPrefix(path, "/api/users/"):
		rest := strings.TrimPrefix(path, "/api/users/")
		if _, tail, ok := strings.Cut(rest, "/"); ok {
			return "/api/users/:userId/" + tail
		}
		return "/api/users/:userId"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
