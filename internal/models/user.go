package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
	RoleUnset      Role = ""
)

// ParseRole maps a stored role value onto a known role. Anything else is unset.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleInstructor:
		return RoleInstructor
	case RoleStudent:
		return RoleStudent
	default:
		return RoleUnset
	}
}

func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleInstructor || r == RoleStudent
}

// Label is the role as reported by the role lookup endpoint.
func (r Role) Label() string {
	if !r.Known() {
		return "unknown"
	}
	return string(r)
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	PhotoURL  *string   `json:"photo_url"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
