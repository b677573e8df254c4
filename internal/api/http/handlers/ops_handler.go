package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facilityops/resolution-service/internal/observability"
)

// OpsHandler exposes operational introspection behind the ops key.
type OpsHandler struct {
	metrics *observability.Metrics
}

// NewOpsHandler constructs handler.
func NewOpsHandler(metrics *observability.Metrics) *OpsHandler {
	return &OpsHandler{metrics: metrics}
}

// Metrics GET /ops/metrics.
func (h *OpsHandler) Metrics(c *fiber.Ctx) error {
	requests, errorCounts := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"requests": requests,
		"errors":   errorCounts,
	}})
}
