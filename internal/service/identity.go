package service

import (
	"context"
	"errors"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/store"
	"github.com/contacthub/contacthub/pkg/tokens"
)

// SessionCache accelerates subject to user-id resolution. Satisfied by
// *cache.Sessions.
type SessionCache interface {
	Get(ctx context.Context, subject string) (string, bool)
	Put(ctx context.Context, subject, id string)
}

// IdentityService turns a bearer token into the current user.
type IdentityService struct {
	Store  store.Store
	Tokens *tokens.Service
	Cache  SessionCache
}

// Resolve decodes the session token and loads the user it names. A cache hit
// resolves by id; a miss falls back to a username lookup and repopulates the
// cache. The row is always freshly fetched, so role and verification state
// never go stale, only the name-to-id mapping is cached.
func (s *IdentityService) Resolve(ctx context.Context, bearer string) (domain.User, error) {
	subject, err := s.Tokens.Decode(bearer, tokens.PurposeSession)
	if err != nil {
		return domain.User{}, ErrUnauthorized
	}

	if id, ok := s.Cache.Get(ctx, subject); ok {
		u, err := s.Store.Users().GetByID(ctx, id)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		// Stale cache entry, fall through to the username lookup.
	}

	u, err := s.Store.Users().GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthorized
		}
		return domain.User{}, err
	}

	s.Cache.Put(ctx, subject, u.ID)
	return u, nil
}

// RequireAdmin gates admin-only operations. Always composed after Resolve.
func RequireAdmin(u domain.User) error {
	if !u.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
