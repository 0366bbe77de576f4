package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/flowr-io/workflow-service/internal/api/dto"
	"github.com/flowr-io/workflow-service/internal/service"
	apperrors "github.com/flowr-io/workflow-service/pkg/util"
)

// AuthHandler exposes the public authentication endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.OrganizationID == "" {
		return apperrors.NewValidationError("name, email, password and organization_id are required", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.OrganizationID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message": "Registration successful. Please check your email to verify your account.",
			"email":   user.Email,
		},
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, signed, expiresAt, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":              user.ID,
				"name":            user.Name,
				"email":           user.Email,
				"role":            user.Role,
				"organization_id": user.OrganizationID,
			},
			"auth": dto.AuthResponse{Token: signed, ExpiresAt: expiresAt},
		},
	})
}

// VerifyEmail handles GET /api/v1/auth/verify-email?token=.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		return apperrors.NewValidationError("token is required", nil)
	}
	if err := h.auth.VerifyEmail(c.Context(), tokenStr); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Email verified successfully"}})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	if err := h.auth.ForgotPassword(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"message": "If an account with that email exists, we've sent a password reset link",
	}})
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new_password required", nil)
	}
	if err := h.auth.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password reset successful"}})
}

// ResendVerification handles POST /api/v1/auth/resend-verification.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	if err := h.auth.ResendVerification(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Verification email sent"}})
}

// AcceptInvite handles GET /api/v1/auth/accept-invite?token=.
func (h *AuthHandler) AcceptInvite(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		return apperrors.NewValidationError("token is required", nil)
	}
	if err := h.users.AcceptInvitation(c.Context(), tokenStr); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Invitation accepted successfully"}})
}
