// Package domain defines the records the service operates on.
package domain

import "time"

// Role is the authorization role attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a request-supplied role string onto a known role,
// defaulting to USER.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User is the principal record held by the system-of-record.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id encoded
	Verified     bool
	Role         Role
	AvatarURL    string

	// TempPasswordHash is set only while a password reset is in flight and
	// cleared once the reset token is consumed.
	TempPasswordHash *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
