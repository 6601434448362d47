// Package store defines the system-of-record interface. Concrete drivers
// (sqlite today) implement it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. It exposes sub-repositories to
// keep concerns tidy and testable.
type Store interface {
	Users() Users
	Contacts() Contacts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn errors
	// and committing otherwise. Use it for multi-step mutations that must be
	// atomic (e.g. the reset-password promotion).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByUsername is used during login and bearer resolution.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// GetByEmail is used by the confirmation and reset flows.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username or email is taken.
	Create(ctx context.Context, u domain.User) error

	// SetVerified marks the user's email as confirmed.
	SetVerified(ctx context.Context, email string) error

	// SetTempPassword stores (or, with nil, clears) the in-flight reset hash.
	SetTempPassword(ctx context.Context, email string, hash *string) error

	// UpdatePassword sets the active password hash.
	UpdatePassword(ctx context.Context, email string, hash string) error

	// UpdateAvatarURL sets the avatar reference.
	UpdateAvatarURL(ctx context.Context, email string, url string) error
}

type Contacts interface {
	// Create inserts a new contact owned by OwnerID.
	Create(ctx context.Context, c domain.Contact) error

	// GetByID returns a contact only when it belongs to ownerID.
	GetByID(ctx context.Context, ownerID, id string) (domain.Contact, error)

	// ListByOwner returns the owner's contacts, optionally filtered by a
	// case-insensitive substring match over name, surname and email.
	ListByOwner(ctx context.Context, ownerID, query string) ([]domain.Contact, error)

	// Update persists the mutable contact fields.
	Update(ctx context.Context, c domain.Contact) error

	// Delete removes a contact owned by ownerID.
	Delete(ctx context.Context, ownerID, id string) error

	// UpcomingBirthdays returns the owner's contacts whose birthday falls
	// within the week starting at from (date precision).
	UpcomingBirthdays(ctx context.Context, ownerID string, from time.Time) ([]domain.Contact, error)
}
