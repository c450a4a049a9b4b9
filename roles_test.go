package atelier_test

import (
	"testing"

	"github.com/atelierhq/atelier"
	"github.com/stretchr/testify/assert"
)

func TestResolveSignupRole(t *testing.T) {
	assert.Equal(t, atelier.RoleIDOperator, atelier.ResolveSignupRole(true))
	assert.Equal(t, atelier.RoleIDBasic, atelier.ResolveSignupRole(false))
}

func TestRoleName(t *testing.T) {
	assert.Equal(t, atelier.RoleAdmin, atelier.RoleName(atelier.RoleIDAdmin))
	assert.Equal(t, atelier.RoleOperator, atelier.RoleName(atelier.RoleIDOperator))
	assert.Equal(t, atelier.RoleBasic, atelier.RoleName(atelier.RoleIDBasic))
	assert.Empty(t, atelier.RoleName(99))
}

func TestDefaultRoles(t *testing.T) {
	roles := atelier.DefaultRoles()
	assert.Len(t, roles, 3)

	for _, role := range roles {
		assert.Equal(t, atelier.RoleName(role.ID), role.Name)
	}
}
