package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{Admin, Admin, true},
		{Admin, User, true},
		{LogisticsOfficer, BaseCommander, true},
		{BaseCommander, LogisticsOfficer, false},
		{User, BaseCommander, false},
		{User, User, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.HasPermission(tt.required),
			"%s vs required %s", tt.role, tt.required)
	}
}

func TestUnknownRoleFallsBackToUserLevel(t *testing.T) {
	unknown := Role("quartermaster")
	assert.False(t, unknown.IsValid())
	assert.Equal(t, UserLevel, unknown.GetHierarchyLevel())
}
