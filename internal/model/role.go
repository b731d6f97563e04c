package model

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest" // also owns a Participant record
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleGuest}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// ParseRole converts s to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) String() string { return string(r) }
