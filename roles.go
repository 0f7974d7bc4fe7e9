package sessiongate

// AccountRole is the account's role flag
type AccountRole string

const (
	// RoleStandard is a regular account
	RoleStandard AccountRole = "standard"
	// RoleAdmin is an administrator account
	RoleAdmin AccountRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r AccountRole) IsValid() bool {
	switch r {
	case RoleStandard, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into an AccountRole type
func ParseRole(roleStr string) (AccountRole, bool) {
	role := AccountRole(roleStr)
	return role, role.IsValid()
}
