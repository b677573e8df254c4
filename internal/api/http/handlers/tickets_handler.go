package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facilityops/resolution-service/internal/api/dto"
	"github.com/facilityops/resolution-service/internal/auth"
	"github.com/facilityops/resolution-service/internal/domain"
	"github.com/facilityops/resolution-service/internal/repository"
	"github.com/facilityops/resolution-service/internal/service"
	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

// TicketsHandler exposes intake and lifecycle endpoints.
type TicketsHandler struct {
	intake *service.IntakeService
	flow   *service.TicketFlowService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(intake *service.IntakeService, flow *service.TicketFlowService) *TicketsHandler {
	return &TicketsHandler{intake: intake, flow: flow}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PropertyID == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("property_id and description required", nil)
	}

	ticket, err := h.intake.CreateTicket(c.Context(), principal.UserID, service.IntakeInput{
		PropertyID:     req.PropertyID,
		Description:    req.Description,
		PhotoBeforeURL: req.PhotoBeforeURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseTicketQuery(c)
	tickets, err := h.flow.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, entries, err := h.flow.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicketDetail(ticket, entries)})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ResolverID == "" {
		return apperrors.NewValidationError("resolver_id required", nil)
	}
	ticket, err := h.flow.Assign(c.Context(), principal.UserID, c.Params("id"), req.ResolverID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Accept POST /tickets/:id/accept.
func (h *TicketsHandler) Accept(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.flow.Accept(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Override POST /tickets/:id/override.
func (h *TicketsHandler) Override(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CategoryCode == "" {
		return apperrors.NewValidationError("category_code required", nil)
	}
	ticket, err := h.flow.OverrideClassification(c.Context(), principal.UserID, c.Params("id"), req.CategoryCode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Reclassify POST /tickets/:id/reclassify.
func (h *TicketsHandler) Reclassify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.flow.Reclassify(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// PauseSLA POST /tickets/:id/sla/pause.
func (h *TicketsHandler) PauseSLA(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PauseSLARequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("reason required", nil)
	}
	ticket, err := h.flow.PauseSLA(c.Context(), principal.UserID, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ResumeSLA POST /tickets/:id/sla/resume.
func (h *TicketsHandler) ResumeSLA(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.flow.ResumeSLA(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	assigneeProvided := bodyHasField(c.Body(), "assignee_id")
	ticket, err := h.flow.UpdateStatus(c.Context(), principal.UserID, c.Params("id"),
		domain.TicketStatus(req.Status), req.AssigneeID, assigneeProvided)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Rate POST /tickets/:id/rating.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.flow.Rate(c.Context(), principal.UserID, c.Params("id"), req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.flow.Close(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// AttachPhotos POST /tickets/:id/photos.
func (h *TicketsHandler) AttachPhotos(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PhotosRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.flow.AttachPhotos(c.Context(), principal.UserID, c.Params("id"), req.BeforeURL, req.AfterURL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if property := c.Query("property_id"); property != "" {
		filter.PropertyID = &property
	}
	if raisedBy := c.Query("raised_by"); raisedBy != "" {
		filter.RaisedBy = &raisedBy
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedTo = &assignee
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if vague := c.Query("is_vague"); vague != "" {
		if parsed, err := strconv.ParseBool(vague); err == nil {
			filter.IsVague = &parsed
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// bodyHasField distinguishes an absent assignee_id from an explicit null,
// which the update-status contract treats differently. Key presence is
// checked on the decoded object, never on the raw text.
func bodyHasField(body []byte, field string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	_, ok := fields[field]
	return ok
}
