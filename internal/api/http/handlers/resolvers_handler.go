package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facilityops/resolution-service/internal/api/dto"
	"github.com/facilityops/resolution-service/internal/auth"
	"github.com/facilityops/resolution-service/internal/service"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

// ResolversHandler exposes pool check-in/out and availability endpoints.
type ResolversHandler struct {
	resolvers *service.ResolverService
}

// NewResolversHandler constructs handler.
func NewResolversHandler(resolvers *service.ResolverService) *ResolversHandler {
	return &ResolversHandler{resolvers: resolvers}
}

// CheckIn POST /resolvers/check-in.
func (h *ResolversHandler) CheckIn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PropertyID == "" {
		return apperrors.NewValidationError("property_id required", nil)
	}
	if err := h.resolvers.CheckIn(c.Context(), principal.UserID, req.PropertyID, req.Floor); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"checked_in": true}})
}

// CheckOut POST /resolvers/check-out.
func (h *ResolversHandler) CheckOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CheckOutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PropertyID == "" {
		return apperrors.NewValidationError("property_id required", nil)
	}
	if err := h.resolvers.CheckOut(c.Context(), principal.UserID, req.PropertyID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"checked_in": false}})
}

// ListRanked GET /properties/:id/resolvers.
func (h *ResolversHandler) ListRanked(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var skillGroup *string
	if code := c.Query("skill_group"); code != "" {
		skillGroup = &code
	}
	ranked, err := h.resolvers.RankedResolvers(c.Context(), c.Params("id"), skillGroup)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRanked(ranked)})
}
