package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/contacthub/contacthub/internal/cache"
	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// spyUsers counts lookups so tests can assert which path Resolve took.
type spyUsers struct {
	store.Users
	byID       int
	byUsername int
}

func (s *spyUsers) GetByID(ctx context.Context, id string) (domain.User, error) {
	s.byID++
	return s.Users.GetByID(ctx, id)
}

func (s *spyUsers) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	s.byUsername++
	return s.Users.GetByUsername(ctx, username)
}

type spyStore struct {
	store.Store
	users *spyUsers
}

func (s *spyStore) Users() store.Users { return s.users }

func newIdentity(t *testing.T) (*IdentityService, *spyStore, *miniredis.Miniredis) {
	t.Helper()

	base := newTestStore(t)
	spy := &spyStore{Store: base, users: &spyUsers{Users: base.Users()}}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &IdentityService{
		Store:  spy,
		Tokens: newTestTokens(),
		Cache:  cache.NewSessions(rdb),
	}, spy, mr
}

func seedUser(t *testing.T, s store.Store, username, email string) domain.User {
	t.Helper()
	ctx := context.Background()

	acct := &AccountService{Store: s, Tokens: newTestTokens(), Mail: &recordingMailer{}, BaseURL: "http://localhost/"}
	u, err := acct.Register(ctx, username, email, "hunter22", "USER")
	require.NoError(t, err)
	require.NoError(t, s.Users().SetVerified(ctx, email))
	return u
}

func TestResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, spy, _ := newIdentity(t)
	u := seedUser(t, svc.Store, "alice", "alice@example.com")

	bearer, err := svc.Tokens.IssueSession("alice")
	require.NoError(t, err)

	t.Run("first resolution goes through the username lookup", func(t *testing.T) {
		got, err := svc.Resolve(ctx, bearer)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, 1, spy.users.byUsername)
		require.Equal(t, 0, spy.users.byID)
	})

	t.Run("second resolution is served from the cache", func(t *testing.T) {
		got, err := svc.Resolve(ctx, bearer)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, 1, spy.users.byUsername, "username lookup must not repeat within the TTL")
		require.Equal(t, 1, spy.users.byID)
	})

	t.Run("role changes are visible despite the cache", func(t *testing.T) {
		// The cache maps username to id only; the row itself is re-read.
		got, err := svc.Resolve(ctx, bearer)
		require.NoError(t, err)
		require.False(t, got.IsAdmin())
	})
}

func TestResolveFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newIdentity(t)
	seedUser(t, svc.Store, "alice", "alice@example.com")

	t.Run("garbage bearer", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong purpose", func(t *testing.T) {
		verify, err := svc.Tokens.IssuePurpose("alice@example.com", "verify_email")
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, verify)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("subject without an account", func(t *testing.T) {
		bearer, err := svc.Tokens.IssueSession("ghost")
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, bearer)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestResolveSurvivesCacheOutage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, mr := newIdentity(t)
	u := seedUser(t, svc.Store, "alice", "alice@example.com")

	bearer, err := svc.Tokens.IssueSession("alice")
	require.NoError(t, err)

	mr.Close()

	got, err := svc.Resolve(ctx, bearer)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	require.NoError(t, RequireAdmin(domain.User{Role: domain.RoleAdmin}))
	require.ErrorIs(t, RequireAdmin(domain.User{Role: domain.RoleUser}), ErrForbidden)
	require.ErrorIs(t, RequireAdmin(domain.User{}), ErrForbidden)
}
