package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultBucketsLimit = 100
	maxBucketsLimit     = 1000
)

type listBucketsHandler struct {
	logger       *logrus.Logger
	debouncer    debouncer.Service
	timeProvider func() time.Time
}

func NewListBucketsHandler(logger *logrus.Logger, debouncer debouncer.Service) Handler {
	return &listBucketsHandler{
		logger:       logger,
		debouncer:    debouncer,
		timeProvider: time.Now,
	}
}

// Handle @Summary List active buckets of a policy
// @Description Returns the buckets of a policy that were not dispatched yet, earliest fire time first
// @Tags Buckets
// @Param Authorization header string true "Authorization token"
// @Param policy path string true "Policy name"
// @Param limit query int false "Maximum number of buckets (default 100, max 1000)"
// @Produce json
// @Success 200 {object} response.ListBucketsOutput "Buckets"
// @Failure 400 {object} map[string]interface{} "Invalid limit"
// @Failure 404 {object} map[string]interface{} "Unknown policy"
// @Failure 503 {object} map[string]interface{} "Timer store unavailable"
// @Router /api/v1/policies/{policy}/buckets [get]
func (h *listBucketsHandler) Handle(c *fiber.Ctx) error {
	policy := c.Params("policy")
	limit := defaultBucketsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = min(parsed, maxBucketsLimit)
	}

	buckets, err := h.debouncer.ListBuckets(c.Context(), policy, limit)
	if err != nil {
		if errors.Is(err, debouncer.ErrUnknownPolicy) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "policy not found"})
		}
		h.logger.WithError(err).WithField("policy", policy).Error("failed to list buckets")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "timer store unavailable"})
	}

	now := h.timeProvider()
	out := response.ListBucketsOutput{
		Policy:  policy,
		Buckets: make([]response.BucketOutput, 0, len(buckets)),
	}
	for _, b := range buckets {
		out.Buckets = append(out.Buckets, response.NewBucketOutput(b, now))
	}
	out.Count = len(out.Buckets)
	return c.Status(fiber.StatusOK).JSON(out)
}
