package rbac

import "strings"

// Role is the closed set of roles the platform understands. The identity
// provider sends roles as free-form metadata strings; they are translated here
// at the boundary and never trusted further in.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes a provider-supplied role string. Unknown values fall
// back to the least-privileged role.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "superadmin", "super_admin":
		return RoleSuperadmin
	default:
		return RoleUser
	}
}
