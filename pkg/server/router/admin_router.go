package router

import (
	"errors"

	handlers "github.com/NeuralTrust/TrustBatch/pkg/handlers/http"
	"github.com/NeuralTrust/TrustBatch/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

var (
	ErrInvalidHandlerTransport = errors.New("invalid handler transport")
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
	swaggerURL          string
}

func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
	swaggerURL string,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		swaggerURL:          swaggerURL,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.middlewareTransport == nil ||
		r.middlewareTransport.AdminAuthMiddleware == nil {
		return ErrInvalidHandlerTransport
	}
	ht := r.handlerTransport

	router.Static("/swagger.json", "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: r.swaggerURL,
	}))

	router.Get("/version", ht.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1", r.middlewareTransport.AdminAuthMiddleware.Middleware())
	{
		policies := v1.Group("/policies")
		{
			policies.Get("", ht.ListPoliciesHandler.Handle)
			policies.Get("/:policy/buckets", ht.ListBucketsHandler.Handle)
		}

		v1.Post("/buckets/:bucket_id/fire", ht.FireBucketHandler.Handle)

		v1.Post("/notifications/:category/redispatch", ht.RedispatchHandler.Handle)
	}
	return nil
}
