package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/flowr-io/workflow-service/internal/api/dto"
	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/service"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// TemplatesHandler exposes workflow template design endpoints. The route
// policy restricts these paths to ADMIN and DESIGNER roles.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templateService *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templateService}
}

// Create handles POST /api/v1/workflows/templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}

	tpl, err := h.templates.Create(c.Context(), identity, req.Name, req.Description, req.Structure)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": templateResponse(tpl)})
}

// List handles GET /api/v1/workflows/templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	templates, err := h.templates.List(c.Context(), identity)
	if err != nil {
		return err
	}

	out := make([]dto.TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, templateResponse(tpl))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/v1/workflows/templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tpl, err := h.templates.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(tpl)})
}

// Update handles PUT /api/v1/workflows/templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}

	if err := h.templates.Update(c.Context(), identity, c.Params("id"), req.Name, req.Description, req.Structure); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Template updated successfully"}})
}

// Delete handles DELETE /api/v1/workflows/templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.templates.Delete(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Template deleted successfully"}})
}

func templateResponse(tpl *domain.WorkflowTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Structure:   tpl.Structure,
		CreatedBy:   tpl.CreatedBy,
		CreatedAt:   tpl.CreatedAt,
	}
}
