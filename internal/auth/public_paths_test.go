package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicPathsMatch(t *testing.T) {
	paths := NewPublicPaths([]string{
		"/api/v1/auth/*",
		"/api/v1/health",
		"/api/v1/docs*",
		"  /favicon.ico  ",
		"",
	})

	assert.True(t, paths.Match("/api/v1/auth/login"))
	assert.True(t, paths.Match("/api/v1/auth/accept-invite"))
	assert.True(t, paths.Match("/api/v1/health"))
	assert.True(t, paths.Match("/api/v1/docs"))
	assert.True(t, paths.Match("/api/v1/docs/index.html"))
	assert.True(t, paths.Match("/favicon.ico"))

	assert.False(t, paths.Match("/api/v1/health/ready"))
	assert.False(t, paths.Match("/api/v1/users/me"))
	assert.False(t, paths.Match("/api/v1/authx"))
}

func TestPublicPathsEmptyList(t *testing.T) {
	paths := NewPublicPaths(nil)
	assert.False(t, paths.Match("/api/v1/auth/login"))
	assert.False(t, paths.Match("/"))
}
