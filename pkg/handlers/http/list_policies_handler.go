package http

import (
	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listPoliciesHandler struct {
	logger    *logrus.Logger
	debouncer debouncer.Service
}

func NewListPoliciesHandler(logger *logrus.Logger, debouncer debouncer.Service) Handler {
	return &listPoliciesHandler{
		logger:    logger,
		debouncer: debouncer,
	}
}

// Handle @Summary List debounce policies
// @Description Returns the registered policies and their timing rules
// @Tags Policies
// @Param Authorization header string true "Authorization token"
// @Produce json
// @Success 200 {object} response.ListPoliciesOutput "Policies"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/v1/policies [get]
func (h *listPoliciesHandler) Handle(c *fiber.Ctx) error {
	policies := h.debouncer.Policies()
	return c.Status(fiber.StatusOK).JSON(response.ListPoliciesOutput{
		Policies: policies,
		Count:    len(policies),
	})
}
