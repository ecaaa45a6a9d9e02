package models

// Role is the closed set of actor roles. All permission checks go through
// this type instead of combining the raw boolean flags at call sites.
type Role int

const (
	RoleApplicant Role = iota
	RoleAdmin
	RoleSuperAdmin
)

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "superadmin"
	case RoleAdmin:
		return "admin"
	default:
		return "applicant"
	}
}

// Role collapses the user's flags into a single role. A super admin flag
// always wins, so a user carrying both flags is treated as super admin.
func (u *User) Role() Role {
	if u.IsSuperAdmin {
		return RoleSuperAdmin
	}
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleApplicant
}
