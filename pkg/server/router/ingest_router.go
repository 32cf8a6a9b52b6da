package router

import (
	handlers "github.com/NeuralTrust/TrustBatch/pkg/handlers/http"
	"github.com/NeuralTrust/TrustBatch/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const TelemetryPath = "/v1/telemetry"

type ingestRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
}

// NewIngestRouter exposes the unauthenticated telemetry endpoint.
func NewIngestRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
) ServerRouter {
	return &ingestRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *ingestRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.handlerTransport.IngestTelemetryHandler == nil ||
		r.middlewareTransport == nil || r.middlewareTransport.SessionMiddleware == nil {
		return ErrInvalidHandlerTransport
	}
	router.Post(TelemetryPath,
		r.middlewareTransport.SessionMiddleware.Middleware(),
		r.handlerTransport.IngestTelemetryHandler.Handle,
	)
	return nil
}
