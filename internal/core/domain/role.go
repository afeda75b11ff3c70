package domain

// Role identifies which collections and mutations a session can reach.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Roles lists every role in a fixed order.
var Roles = []Role{RoleAdmin, RoleDoctor, RolePatient}

// CredentialKey is the role-scoped key a credential is persisted under.
func (r Role) CredentialKey() string {
	switch r {
	case RoleAdmin:
		return "aToken"
	case RoleDoctor:
		return "dToken"
	default:
		return "token"
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Credential is the opaque session token issued at login.
// The empty credential means "no session".
type Credential string

// Present reports whether the credential holds a token.
func (c Credential) Present() bool {
	return c != ""
}

// String redacts the token so it never ends up in logs.
func (c Credential) String() string {
	if c == "" {
		return "<absent>"
	}
	return "<redacted>"
}
