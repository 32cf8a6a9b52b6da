package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	GetVersionHandler Handler

	// Debouncer administration
	ListPoliciesHandler Handler
	ListBucketsHandler  Handler
	FireBucketHandler   Handler

	// Notifications
	RedispatchHandler Handler

	// Ingestion
	IngestTelemetryHandler Handler
}
