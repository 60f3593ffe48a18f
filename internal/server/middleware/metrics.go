package middleware

import (
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/ctxval"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig responsible to configure middleware
type MetricsConfig struct {
	Skipper     Skipper
	Namespace   string
	Buckets     []float64
	MetricsPath string
	// DegradedAnnotation, when set, counts responses whose request carries it.
	DegradedAnnotation ctxval.Annotation
	Registerer         prometheus.Registerer
	Gatherer           prometheus.Gatherer
}

const (
	httpRequestsDuration = "http_request_duration_seconds"
	httpDegradedTotal    = "http_degraded_responses_total"
	notFoundRoute        = "/not-found"
)

// DefaultMetricsConfig has the default instrumentation config
var DefaultMetricsConfig = MetricsConfig{
	Skipper:   skipProbes,
	Namespace: "catalog",
	Buckets: []float64{
		0.001, // 1ms
		0.005,
		0.01, // 10ms
		0.025,
		0.05,
		0.1, // 100ms
		0.25,
		0.5,
		1.0, // 1s
		2.5,
		5.0,
		10.0,
	},
	MetricsPath: "/metrics",
}

// skipProbes keeps liveness checks out of the latency histogram.
func skipProbes(c echo.Context) bool {
	return c.Path() == "/health"
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

// Metrics returns an echo middleware with default config for instrumentation.
func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

// MetricsWithConfig observes latency per route pattern, so product ids never
// become label values. Unmatched paths share one route label.
func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultMetricsConfig.Skipper
	}
	if config.Buckets == nil {
		config.Buckets = DefaultMetricsConfig.Buckets
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	duration := mustRegister(config.Registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      httpRequestsDuration,
		Help:      "Time spent serving a route",
		Buckets:   config.Buckets,
	}, []string{"code", "method", "route"}))
	degraded := mustRegister(config.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      httpDegradedTotal,
		Help:      "Responses served while a dependency was degraded",
	}, []string{"route"}))

	var promHandler echo.HandlerFunc
	if config.MetricsPath != "" {
		promHandler = echo.WrapHandler(promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if promHandler != nil && req.URL.Path == config.MetricsPath {
				return promHandler(c)
			}
			if config.Skipper(c) {
				return next(c)
			}

			route := c.Path()
			if isNotFoundHandler(c.Handler()) {
				route = notFoundRoute
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			code := strconv.Itoa(c.Response().Status)
			duration.WithLabelValues(code, req.Method, route).Observe(time.Since(start).Seconds())

			if config.DegradedAnnotation != "" {
				if flagged, _ := ctxval.Get[ctxval.Annotation, bool](c.Request().Context(), config.DegradedAnnotation); flagged {
					degraded.WithLabelValues(route).Inc()
				}
			}
			return err
		}
	}
}

// mustRegister returns the already registered collector when one exists
// under the same name.
func mustRegister[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}
