package dto

// ProfileResponse is the user profile view.
type ProfileResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	OrganizationID   string  `json:"organization_id"`
	OrganizationName string  `json:"organization_name,omitempty"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	IsActive         bool    `json:"is_active"`
	EmailVerified    bool    `json:"email_verified"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// InviteRequest payload for inviting a user into the caller's organization.
type InviteRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AssignRoleRequest payload.
type AssignRoleRequest struct {
	Role string `json:"role"`
}
