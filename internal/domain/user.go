package domain

import "time"

// User is the domain model for organization members.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	OrganizationID string
	AvatarURL      *string
	IsActive       bool
	EmailVerified  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
