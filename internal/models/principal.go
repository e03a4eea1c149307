package models

// Role is the closed set of privilege levels used for gating. Anything the
// server reports outside the known wire values resolves to RoleAnonymous.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleAnonymous Role = "anonymous"
)

// Wire values used by the auth service for the role field.
const (
	wireRoleAdmin = "ROLE_ADMIN"
	wireRoleUser  = "ROLE_USER"
)

// ParseRole maps a wire role string onto the closed Role set. Unknown values
// carry no elevated privilege.
func ParseRole(value string) Role {
	switch value {
	case wireRoleAdmin:
		return RoleAdmin
	case wireRoleUser:
		return RoleUser
	default:
		return RoleAnonymous
	}
}

// Principal is the resolved identity behind a session token.
type Principal struct {
	PatientID int64
	Role      Role
}

// Anonymous is the principal used when no token is held or the token could
// not be resolved.
func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

// HasPatient reports whether a patient identifier was resolved, which is the
// precondition for persisting a diagnosis.
func (p Principal) HasPatient() bool {
	return p.PatientID != 0
}
