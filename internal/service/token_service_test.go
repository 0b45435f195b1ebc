package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) (TokenService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeRefreshTokenRepo()
	cfg := TokenConfig{
		Secret:     []byte("test-secret"),
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
	return NewTokenService(cfg, users, tokens, fakeTxManager{}), users, tokens
}

func seedUser(t *testing.T, users *fakeUserRepo, username string, roles ...string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Enabled:  true,
		Provider: model.ProviderLocal,
	}
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}
	user.SetRoles(roles...)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestGenerateAccessTokenValidates(t *testing.T) {
	svc, users, _ := newTestTokenService(t)
	seedUser(t, users, "alice")

	token, err := svc.GenerateAccessToken(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token, "alice"))
	err = svc.ValidateToken(token, "bob")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthenticationFailed))
}

func TestGenerateAccessTokenUnknownUser(t *testing.T) {
	svc, _, _ := newTestTokenService(t)

	_, err := svc.GenerateAccessToken(context.Background(), "ghost")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRefreshTokenRotationInvalidatesPrior(t *testing.T) {
	svc, users, _ := newTestTokenService(t)
	seedUser(t, users, "alice")
	ctx := context.Background()

	first, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// The earlier token was consumed by the rotation.
	_, err = svc.RefreshAccessToken(ctx, first.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	// The newest token redeems.
	username, err := svc.RefreshAccessToken(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestRefreshTokenSingleUse(t *testing.T) {
	svc, users, tokens := newTestTokenService(t)
	seedUser(t, users, "alice")
	ctx := context.Background()

	issued, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)

	username, err := svc.RefreshAccessToken(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// Second redemption fails and destroys the token row.
	_, err = svc.RefreshAccessToken(ctx, issued.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = tokens.GetByToken(ctx, issued.Token)
	assert.Error(t, err)

	// A third attempt now reports not found.
	_, err = svc.RefreshAccessToken(ctx, issued.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRefreshTokenExpiredIsDeleted(t *testing.T) {
	svc, users, tokens := newTestTokenService(t)
	seedUser(t, users, "alice")
	ctx := context.Background()

	stale := &model.RefreshToken{
		Token:     "stale-token",
		Username:  "alice",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokens.Create(ctx, stale))

	_, err := svc.RefreshAccessToken(ctx, stale.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = tokens.GetByToken(ctx, stale.Token)
	assert.Error(t, err)
}

func TestRevokeAllRemovesTokens(t *testing.T) {
	svc, users, tokens := newTestTokenService(t)
	seedUser(t, users, "alice")
	ctx := context.Background()

	issued, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, "alice"))

	_, err = tokens.GetByToken(ctx, issued.Token)
	assert.Error(t, err)
}

func TestCleanupExpiredKeepsLiveTokens(t *testing.T) {
	svc, users, tokens := newTestTokenService(t)
	seedUser(t, users, "alice")
	ctx := context.Background()

	live, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, tokens.Create(ctx, &model.RefreshToken{
		Token:     "old",
		Username:  "alice",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	require.NoError(t, svc.CleanupExpired(ctx))

	_, err = tokens.GetByToken(ctx, live.Token)
	assert.NoError(t, err)
	_, err = tokens.GetByToken(ctx, "old")
	assert.Error(t, err)
}
