package atelier

// Role identifiers form a closed set. New accounts default to basic;
// signups that request the operator flag get the operator role.
const (
	RoleIDAdmin    = 1
	RoleIDOperator = 2
	RoleIDBasic    = 3
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleBasic    = "basic"
)

// ResolveSignupRole maps the signup flag to a role id.
func ResolveSignupRole(wantOperator bool) int {
	if wantOperator {
		return RoleIDOperator
	}
	return RoleIDBasic
}

// RoleName returns the canonical name for a role id.
func RoleName(id int) string {
	switch id {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDOperator:
		return RoleOperator
	case RoleIDBasic:
		return RoleBasic
	}
	return ""
}

// DefaultRoles is the closed role set used to seed the roles table.
func DefaultRoles() []*Role {
	return []*Role{
		{ID: RoleIDAdmin, Name: RoleAdmin},
		{ID: RoleIDOperator, Name: RoleOperator},
		{ID: RoleIDBasic, Name: RoleBasic},
	}
}
