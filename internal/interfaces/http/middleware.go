package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/stock-sync/pkg/logger"
)

// HTTPMetrics contadores de peticiones por ruta y clase de status.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registra las métricas en reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Peticiones HTTP atendidas.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"method", "route", "status"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// RequestLogger log estructurado y métricas por petición. metrics puede ser nil.
// Va después de requestid.New() para incluir el request_id.
func RequestLogger(log *logger.Logger, metrics *HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler fije el status antes de registrar.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path

		if metrics != nil {
			class := statusClass(status)
			metrics.requests.WithLabelValues(c.Method(), route, class).Inc()
			metrics.duration.WithLabelValues(c.Method(), route, class).Observe(elapsed.Seconds())
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("duration_ms", float64(elapsed.Microseconds())/1000).
			Msg("petición atendida")
		return nil
	}
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
