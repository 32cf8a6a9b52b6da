package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
)

type metricsMiddleware struct{}

// NewMetricsMiddleware counts requests per matched route pattern.
func NewMetricsMiddleware() Middleware {
	return &metricsMiddleware{}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		prometheus.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		prometheus.HTTPLatency.WithLabelValues(c.Method(), route).
			Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}
