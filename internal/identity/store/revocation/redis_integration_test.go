//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gavel/pkg/testutil/containers"
)

func TestRedisTRL_RevokeAndCheck(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	trl := NewRedisTRL(rc.Client)
	ctx := context.Background()

	revoked, err := trl.IsTokenRevoked(ctx, "jti-unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, trl.RevokeToken(ctx, "jti-1", time.Minute))

	revoked, err = trl.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRedisTRL_EntryExpiresWithToken(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	trl := NewRedisTRL(rc.Client)
	ctx := context.Background()

	require.NoError(t, trl.RevokeToken(ctx, "jti-short", time.Second))

	require.Eventually(t, func() bool {
		revoked, err := trl.IsTokenRevoked(ctx, "jti-short")
		return err == nil && !revoked
	}, 5*time.Second, 200*time.Millisecond)
}

func TestRedisTRL_EmptyJTIIsNoop(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	trl := NewRedisTRL(rc.Client)
	ctx := context.Background()

	require.NoError(t, trl.RevokeToken(ctx, "", time.Minute))

	revoked, err := trl.IsTokenRevoked(ctx, "")
	require.NoError(t, err)
	require.False(t, revoked)
}
