package domain

import "time"

// Contact is a single address-book entry, always owned by one user.
type Contact struct {
	ID      string
	OwnerID string

	Name     string
	Surname  string
	Email    string
	Phone    string
	Birthday time.Time // date precision, stored as YYYY-MM-DD
	Info     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
