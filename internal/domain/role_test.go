package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleDesigner.Valid())
	assert.True(t, RoleStaff.Valid())

	assert.False(t, Role("").Valid())
	assert.False(t, Role("SUPERUSER").Valid())
	assert.False(t, Role("admin").Valid())
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.CanDesignWorkflows())
	assert.True(t, RoleDesigner.CanDesignWorkflows())
	assert.False(t, RoleStaff.CanDesignWorkflows())

	assert.True(t, RoleAdmin.CanManageUsers())
	assert.False(t, RoleDesigner.CanManageUsers())
	assert.False(t, RoleStaff.CanManageUsers())

	// Unknown roles hold no capability at all.
	assert.False(t, Role("SUPERUSER").CanDesignWorkflows())
	assert.False(t, Role("SUPERUSER").CanManageUsers())
}
