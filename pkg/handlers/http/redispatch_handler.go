package http

import (
	"errors"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/app/notification"
	"github.com/NeuralTrust/TrustBatch/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type redispatchHandler struct {
	logger  *logrus.Logger
	batcher notification.Service
}

func NewRedispatchHandler(logger *logrus.Logger, batcher notification.Service) Handler {
	return &redispatchHandler{
		logger:  logger,
		batcher: batcher,
	}
}

// Handle @Summary Redispatch notification events
// @Description Sends the given events to a recipient again on the next sweep
// @Tags Notifications
// @Param Authorization header string true "Authorization token"
// @Param category path string true "Notification category"
// @Param request body request.RedispatchRequest true "Recipient and events"
// @Accept json
// @Produce json
// @Success 202 {object} map[string]interface{} "Redispatch scheduled"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Unknown category"
// @Failure 503 {object} map[string]interface{} "Timer store unavailable"
// @Router /api/v1/notifications/{category}/redispatch [post]
func (h *redispatchHandler) Handle(c *fiber.Ctx) error {
	category := c.Params("category")

	var req request.RedispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err := h.batcher.Redispatch(c.Context(), category, req.RecipientID, req.EventIDs)
	switch {
	case err == nil:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"category":     category,
			"recipient_id": req.RecipientID,
			"event_count":  len(req.EventIDs),
		})
	case errors.Is(err, notification.ErrUnknownCategory):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	case debouncer.IsRetryable(err):
		h.logger.WithError(err).WithField("category", category).Error("failed to redispatch notifications")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "timer store unavailable"})
	default:
		h.logger.WithError(err).WithField("category", category).Error("failed to redispatch notifications")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
