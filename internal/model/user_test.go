package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleCitizen, false},
		{RoleAdminSanitation, true},
		{RoleAdminHealth, true},
		{RoleAdminInfrastructure, true},
		{Role("admin_taman"), true},
		{Role("administrator"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.IsAdmin())
		})
	}
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Citizen", RoleCitizen.Label())
	assert.Equal(t, "Sanitation Admin", RoleAdminSanitation.Label())

	// Unknown roles fall back to the wire value.
	assert.Equal(t, "admin_taman", Role("admin_taman").Label())
}
