package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

func TestAttemptLimiterCountsAndExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := auth.NewAttemptLimiter(client, auth.LimiterConfig{MaxFailures: 2, Lockout: 10 * time.Minute})
	ctx := context.Background()

	require.NoError(t, l.Check(ctx, "bob@example.com"))
	require.NoError(t, l.RecordFailure(ctx, "bob@example.com"))
	require.NoError(t, l.Check(ctx, "bob@example.com"))
	require.NoError(t, l.RecordFailure(ctx, "bob@example.com"))
	require.ErrorIs(t, l.Check(ctx, "bob@example.com"), shared.ErrRateLimited)
	require.NoError(t, l.Check(ctx, "alice@example.com"))

	key := "odyssey-auth:login:fail:bob@example.com"
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	mr.FastForward(11 * time.Minute)
	require.NoError(t, l.Check(ctx, "bob@example.com"))
}

func TestAttemptLimiterReset(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := auth.NewAttemptLimiter(client, auth.LimiterConfig{MaxFailures: 1, Lockout: time.Minute})
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "bob@example.com"))
	require.ErrorIs(t, l.Check(ctx, "bob@example.com"), shared.ErrRateLimited)
	require.NoError(t, l.Reset(ctx, "bob@example.com"))
	require.NoError(t, l.Check(ctx, "bob@example.com"))
}

func TestAttemptLimiterDisabled(t *testing.T) {
	assert.Nil(t, auth.NewAttemptLimiter(nil, auth.LimiterConfig{MaxFailures: 5, Lockout: time.Minute}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := auth.NewAttemptLimiter(client, auth.LimiterConfig{})
	assert.Nil(t, l)

	ctx := context.Background()
	require.NoError(t, l.Check(ctx, "x"))
	require.NoError(t, l.RecordFailure(ctx, "x"))
	require.NoError(t, l.Reset(ctx, "x"))
}
