package http

import (
	"errors"

	"github.com/NeuralTrust/TrustBatch/pkg/app/telemetry"
	"github.com/NeuralTrust/TrustBatch/pkg/common"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustBatch/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ingestTelemetryHandler struct {
	logger       *logrus.Logger
	ingestor     telemetry.Service
	maxBodyBytes int64
}

func NewIngestTelemetryHandler(logger *logrus.Logger, ingestor telemetry.Service, maxBodyBytes int64) Handler {
	return &ingestTelemetryHandler{
		logger:       logger,
		ingestor:     ingestor,
		maxBodyBytes: maxBodyBytes,
	}
}

// Handle @Summary Ingest browser telemetry
// @Description Admits a batch of telemetry events through the per session rate limiter
// @Tags Telemetry
// @Param X-Session-ID header string true "Browser session ID"
// @Param Content-Encoding header string false "gzip, br, zstd or deflate"
// @Accept json
// @Produce json
// @Success 202 {object} telemetry.Result "Accepted and dropped counts"
// @Failure 400 {object} map[string]interface{} "Invalid payload"
// @Failure 413 {object} map[string]interface{} "Payload too large"
// @Router /v1/telemetry [post]
func (h *ingestTelemetryHandler) Handle(c *fiber.Ctx) error {
	session, ok := middleware.SessionFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session id is required"})
	}

	raw := c.Request().Body()
	if h.maxBodyBytes > 0 && int64(len(raw)) > h.maxBodyBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "payload too large"})
	}
	body, err := httpx.DecodeBody(c.Get(common.ContentEncodingHeader), raw, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "payload too large"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to decode body"})
	}

	res, err := h.ingestor.Ingest(c.Context(), session, body)
	if err != nil {
		h.logger.WithError(err).WithField("sessionID", session.ID).Debug("rejected telemetry payload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(res)
}
