package types

// Role is the authority a user holds over a canonical calendar.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleNone   Role = "none"
)

// CanWrite reports whether the role permits mutating the calendar or
// its events.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleEditor
}
