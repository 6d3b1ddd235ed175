package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRevocations(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationList(client), mr
}

func TestRevokeAndCheck(t *testing.T) {
	revocations, mr := newTestRevocations(t)
	ctx := context.Background()

	revoked, err := revocations.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, revocations.Revoke(ctx, "sess-1", time.Hour))

	revoked, err = revocations.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, revoked)

	// Other sessions stay untouched.
	revoked, err = revocations.IsRevoked(ctx, "sess-2")
	require.NoError(t, err)
	require.False(t, revoked)

	// The marker expires with the original session lifetime.
	mr.FastForward(2 * time.Hour)
	revoked, err = revocations.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRevokeEmptyID(t *testing.T) {
	revocations, mr := newTestRevocations(t)
	ctx := context.Background()

	require.NoError(t, revocations.Revoke(ctx, "", time.Hour))
	require.Empty(t, mr.Keys())

	revoked, err := revocations.IsRevoked(ctx, "")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRevokeNonPositiveTTL(t *testing.T) {
	revocations, mr := newTestRevocations(t)

	require.NoError(t, revocations.Revoke(context.Background(), "sess-1", -time.Second))
	ttl := mr.TTL("session:revoked:sess-1")
	require.Greater(t, ttl, time.Duration(0))
}
