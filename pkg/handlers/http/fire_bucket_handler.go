package http

import (
	"errors"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type fireBucketHandler struct {
	logger    *logrus.Logger
	debouncer debouncer.Service
}

func NewFireBucketHandler(logger *logrus.Logger, debouncer debouncer.Service) Handler {
	return &fireBucketHandler{
		logger:    logger,
		debouncer: debouncer,
	}
}

// Handle @Summary Force fire a bucket
// @Description Dispatches a bucket immediately, outside its timing rule
// @Tags Buckets
// @Param Authorization header string true "Authorization token"
// @Param bucket_id path string true "Bucket ID"
// @Produce json
// @Success 200 {object} map[string]interface{} "Bucket dispatched"
// @Failure 400 {object} map[string]interface{} "Invalid bucket ID"
// @Failure 404 {object} map[string]interface{} "Bucket not found"
// @Failure 409 {object} map[string]interface{} "Bucket already dispatched"
// @Failure 502 {object} map[string]interface{} "Callback failed"
// @Router /api/v1/buckets/{bucket_id}/fire [post]
func (h *fireBucketHandler) Handle(c *fiber.Ctx) error {
	bucketID, err := uuid.Parse(c.Params("bucket_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bucket_id"})
	}

	err = h.debouncer.ForceFire(c.Context(), bucketID)
	switch {
	case err == nil:
		h.logger.WithField("bucketID", bucketID).Info("bucket force fired")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": bucketID, "dispatched": true})
	case errors.Is(err, debouncer.ErrBucketNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bucket not found"})
	case errors.Is(err, debouncer.ErrAlreadyDispatched):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "bucket already dispatched"})
	case errors.Is(err, debouncer.ErrUnknownPolicy):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "bucket belongs to an unknown policy"})
	case debouncer.IsRetryable(err):
		h.logger.WithError(err).WithField("bucketID", bucketID).Error("failed to force fire bucket")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "timer store unavailable"})
	default:
		h.logger.WithError(err).WithField("bucketID", bucketID).Warn("force fired bucket callback failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "dispatched": true})
	}
}
