// Package cache is the redis lookaside cache in front of the
// system-of-record. It only accelerates subject → user-id resolution; it is
// never an authority for roles or verification flags.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/contacthub/contacthub/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds the staleness window of a cached id lookup.
const DefaultTTL = 15 * time.Minute

const keyPrefix = "curr_user:"

// NewClient returns a configured go-redis client from a URL
// (e.g. redis://localhost:6379/0) and verifies connectivity.
func NewClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("cache: empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// Sessions maps a session token's subject to the resolved user id.
type Sessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessions(rdb *redis.Client) *Sessions {
	return &Sessions{rdb: rdb, ttl: DefaultTTL}
}

// Get returns the cached user id for subject. A backend error reads the same
// as a miss; the resolver falls back to the system-of-record either way.
func (s *Sessions) Get(ctx context.Context, subject string) (string, bool) {
	id, err := s.rdb.Get(ctx, keyPrefix+subject).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slogx.FromContext(ctx).Warn("session cache get failed", "err", err)
		}
		return "", false
	}
	return id, id != ""
}

// Put stores subject → id with the fixed TTL. Best-effort: a failed write is
// logged and never fails the surrounding authentication flow.
func (s *Sessions) Put(ctx context.Context, subject, id string) {
	if err := s.rdb.Set(ctx, keyPrefix+subject, id, s.ttl).Err(); err != nil {
		slogx.FromContext(ctx).Warn("session cache put failed", "err", err)
	}
}
