package model

// Role is the closed set of caller roles.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a wire value onto the closed role set. Anything that is
// not "admin" is a member.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleMember
}

// Principal identifies the caller of a request, as supplied by the
// surrounding request boundary.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify reports whether the principal may mutate the booking: only
// the booking's creator or an admin.
func (p Principal) CanModify(b *Booking) bool {
	if p.ID == "" {
		return false
	}
	return p.ID == b.CreatedBy || p.IsAdmin()
}
