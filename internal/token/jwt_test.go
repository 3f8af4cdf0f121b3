package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/requestcontext"
)

func newTestService() *Service {
	return NewService("test-signing-key", "gavel-test", "gavel-api")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := id.NewUserID()
	sessionID := id.NewSessionID()

	signed, jti, err := svc.GenerateAccessToken(userID, sessionID, "judge", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.NotEmpty(t, jti)

	claims, err := svc.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Equal(t, "judge", claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestValidate_RejectsExpired(t *testing.T) {
	svc := newTestService()
	signed, _, err := svc.GenerateAccessToken(id.NewUserID(), id.NewSessionID(), "clerk", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidate_RejectsWrongKey(t *testing.T) {
	signed, _, err := newTestService().GenerateAccessToken(id.NewUserID(), id.NewSessionID(), "clerk", time.Hour)
	require.NoError(t, err)

	other := NewService("different-key", "gavel-test", "gavel-api")
	_, err = other.Validate(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidate_RejectsGarbage(t *testing.T) {
	_, err := newTestService().Validate("not.a.token")
	require.Error(t, err)
}

func TestBindClaims(t *testing.T) {
	svc := newTestService()
	userID := id.NewUserID()
	sessionID := id.NewSessionID()

	signed, _, err := svc.GenerateAccessToken(userID, sessionID, "prison_officer", time.Hour)
	require.NoError(t, err)

	mwClaims, err := svc.ValidateToken(signed)
	require.NoError(t, err)

	ctx, err := svc.BindClaims(context.Background(), mwClaims)
	require.NoError(t, err)
	assert.Equal(t, userID, requestcontext.UserID(ctx))
	assert.Equal(t, sessionID, requestcontext.SessionID(ctx))
	assert.Equal(t, "prison_officer", requestcontext.Role(ctx))
}

func TestRemainingTTL(t *testing.T) {
	svc := newTestService()
	signed, _, err := svc.GenerateAccessToken(id.NewUserID(), id.NewSessionID(), "judge", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(signed)
	require.NoError(t, err)

	ttl := svc.RemainingTTL(claims)
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}
