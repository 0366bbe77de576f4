package domain

// Role is the closed set of roles a user can hold inside an organization.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleDesigner Role = "DESIGNER"
	RoleStaff    Role = "STAFF"
)

// Valid reports whether the role is a member of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDesigner, RoleStaff:
		return true
	}
	return false
}

// Description returns a human-readable summary of the role.
func (r Role) Description() string {
	switch r {
	case RoleAdmin:
		return "Administrator - Full system access"
	case RoleDesigner:
		return "Workflow Designer - Can create and manage workflows"
	case RoleStaff:
		return "Staff Member - Can participate in workflows"
	}
	return "Unknown role"
}

// CanDesignWorkflows reports whether the role may create or edit workflow templates.
func (r Role) CanDesignWorkflows() bool {
	return r == RoleAdmin || r == RoleDesigner
}

// CanManageUsers reports whether the role may invite users and assign roles.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}
