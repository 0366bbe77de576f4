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

// AdminHandler exposes the admin-only endpoints. The route policy already
// requires the ADMIN role before any of these run.
type AdminHandler struct {
	users     *service.UserService
	workflows *service.WorkflowService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(userService *service.UserService, workflowService *service.WorkflowService) *AdminHandler {
	return &AdminHandler{users: userService, workflows: workflowService}
}

// ListWorkflows handles GET /api/v1/admin/workflows.
func (h *AdminHandler) ListWorkflows(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	workflows, err := h.workflows.ListOrganization(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workflowResponses(workflows)})
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	users, err := h.users.ListUsers(c.Context(), identity)
	if err != nil {
		return err
	}

	out := make([]dto.ProfileResponse, 0, len(users))
	for _, user := range users {
		out = append(out, profileResponse(user, ""))
	}
	return c.JSON(fiber.Map{"data": out})
}

// AssignRole handles PUT /api/v1/admin/users/assign-role?id=.
func (h *AdminHandler) AssignRole(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	targetID := c.Query("id")
	if targetID == "" {
		return apperrors.NewValidationError("id is required", nil)
	}

	var req dto.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.users.AssignRole(c.Context(), identity, targetID, domain.Role(req.Role)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "User role updated successfully"}})
}

// Invite handles POST /api/v1/admin/users/invite.
func (h *AdminHandler) Invite(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Role == "" {
		return apperrors.NewValidationError("name, email and role are required", nil)
	}

	user, err := h.users.Invite(c.Context(), identity, req.Name, req.Email, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message": "Invitation sent successfully",
			"email":   user.Email,
		},
	})
}
