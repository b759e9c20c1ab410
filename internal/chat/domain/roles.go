package domain

// Role classifies a visitor's relationship to the portfolio owner.
type Role string

const (
	RoleFriends    Role = "friends"
	RoleFamily     Role = "family"
	RoleParents    Role = "parents"
	RoleColleagues Role = "colleagues"
	RoleManager    Role = "manager"
	RoleHR         Role = "hr"
	RoleAdmin      Role = "admin"
)

// DefaultRole is assigned to first-time identities.
const DefaultRole = RoleFriends

var allRoles = []Role{
	RoleFriends, RoleFamily, RoleParents,
	RoleColleagues, RoleManager, RoleHR, RoleAdmin,
}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// HasCapability reports whether the profile's role is one of the
// required roles. Capability checks are independent of quota state.
func HasCapability(p *UserProfile, required ...Role) bool {
	if p == nil || p.Role == "" {
		return false
	}
	for _, r := range required {
		if p.Role == r {
			return true
		}
	}
	return false
}
