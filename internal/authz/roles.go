// Package authz turns the backend's raw role strings into a closed set of
// authorization roles and decides which views each role may open.
package authz

// Role is the resolved authorization role. Only the three constants below are
// valid; every other component reasons about Role, never the raw string.
type Role string

const (
	RoleSuperAdmin Role = "superadmin" // Manages admins, sees audit logs
	RoleAdmin      Role = "admin"      // Runs the back office
	RoleUser       Role = "user"       // Customer account, no admin surface
)

// rank orders roles by privilege.
var rank = map[Role]int{
	RoleUser:       0,
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// aliases maps raw backend values to roles. Matching is exact and
// case-sensitive; "developer" and "booking" are the previous names of
// superadmin and user and still appear in stored sessions.
var aliases = map[string]Role{
	"superadmin": RoleSuperAdmin,
	"developer":  RoleSuperAdmin,
	"admin":      RoleAdmin,
	"user":       RoleUser,
	"booking":    RoleUser,
}

// Resolve maps a raw backend role to a Role. It never fails: anything not in
// the alias table, including "", resolves to RoleUser.
func Resolve(raw string) Role {
	if role, ok := aliases[raw]; ok {
		return role
	}
	return RoleUser
}

// AllRoles returns the roles from most to least privileged.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleUser}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of min.
// Invalid roles are never at least anything.
func (r Role) AtLeast(min Role) bool {
	have, ok := rank[r]
	if !ok {
		return false
	}
	want, ok := rank[min]
	if !ok {
		return false
	}
	return have >= want
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	default:
		return "Unknown"
	}
}
