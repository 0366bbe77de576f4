package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowr-io/workflow-service/internal/api/dto"
	"github.com/flowr-io/workflow-service/internal/auth"
	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/service"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// UsersHandler exposes profile endpoints for the authenticated user.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me handles GET /api/v1/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, org, err := h.users.Profile(c.Context(), identity.UserID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(user, org.Name)})
}

// UpdateMe handles PUT /api/v1/users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}

	if err := h.users.UpdateProfile(c.Context(), identity.UserID.String(), req.Name, req.AvatarURL); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Profile updated successfully"}})
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	if err := h.users.ChangePassword(c.Context(), identity.UserID.String(), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password changed successfully"}})
}

func profileResponse(user *domain.User, orgName string) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             string(user.Role),
		OrganizationID:   user.OrganizationID,
		OrganizationName: orgName,
		AvatarURL:        user.AvatarURL,
		IsActive:         user.IsActive,
		EmailVerified:    user.EmailVerified,
	}
}
