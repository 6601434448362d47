package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Sessions, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessions(client), mr
}

func TestPutGet(t *testing.T) {
	t.Parallel()
	sessions, mr := setupTestRedis(t)
	ctx := context.Background()

	_, ok := sessions.Get(ctx, "alice")
	require.False(t, ok)

	sessions.Put(ctx, "alice", "01ARZ3NDEKTSV4RRFFQ69G5FAV")

	id, ok := sessions.Get(ctx, "alice")
	require.True(t, ok)
	require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", id)

	ttl := mr.TTL("curr_user:alice")
	require.Equal(t, DefaultTTL, ttl)
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	sessions, mr := setupTestRedis(t)
	ctx := context.Background()

	sessions.Put(ctx, "alice", "some-id")
	mr.FastForward(DefaultTTL + time.Second)

	_, ok := sessions.Get(ctx, "alice")
	require.False(t, ok)
}

func TestBackendDownDegradesToMiss(t *testing.T) {
	t.Parallel()
	sessions, mr := setupTestRedis(t)
	ctx := context.Background()

	sessions.Put(ctx, "alice", "some-id")
	mr.Close()

	// Both operations must be silent no-ops once the backend is gone.
	_, ok := sessions.Get(ctx, "alice")
	require.False(t, ok)
	sessions.Put(ctx, "alice", "other-id")
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	require.Error(t, err)

	_, err = NewClient("://nope")
	require.Error(t, err)
}
