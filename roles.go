package session

// UserRole is the user's global role
type UserRole = string

const (
	// RoleGuest is a guest role (ie. view)
	RoleGuest UserRole = "guest"
	// RoleSubscriber is a subscriber (ie. view, follow)
	RoleSubscriber UserRole = "subscriber"
	// RoleMember is a member (ie. view, edit)
	RoleMember UserRole = "member"
	// RoleAdmin is an admin role (ie. view, edit, create)
	RoleAdmin UserRole = "admin"
	// RoleOwner is the owner role (ie. view, edit, create, delete)
	RoleOwner UserRole = "owner"
)

// ParseRole validates a raw role string against the known roles. An empty
// string parses as guest; anything unknown reports false.
func ParseRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case "":
		return RoleGuest, true
	case RoleGuest, RoleSubscriber, RoleMember, RoleAdmin, RoleOwner:
		return UserRole(raw), true
	default:
		return RoleGuest, false
	}
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	_, ok := ParseRole(string(r))
	return ok
}

func roleLevel(r UserRole) int {
	switch r {
	case RoleGuest:
		return 0
	case RoleSubscriber:
		return 1
	case RoleMember:
		return 2
	case RoleAdmin:
		return 3
	case RoleOwner:
		return 4
	default:
		return -1
	}
}

// RoleAtLeast checks if role meets the minimum required level. Unknown roles
// never satisfy any minimum.
func RoleAtLeast(role, minRole UserRole) bool {
	if role == "" {
		role = RoleGuest
	}
	current := roleLevel(role)
	min := roleLevel(minRole)
	if current < 0 || min < 0 {
		return false
	}
	return current >= min
}
