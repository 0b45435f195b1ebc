package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, verifier GoogleTokenVerifier) (AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeRefreshTokenRepo()
	cfg := TokenConfig{Secret: []byte("test-secret"), AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour}
	tokenSvc := NewTokenService(cfg, users, tokens, fakeTxManager{})
	return NewAuthService(users, tokenSvc, verifier), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	auth, err := svc.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", auth.Username)
	assert.Equal(t, model.RoleUser, auth.Role)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)

	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.ProviderLocal, stored.Provider)
	assert.NotEqual(t, "secret123", stored.Password) // stored hashed

	login, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", login.Username)
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateResource))

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Email: "alice@example.com", Password: "secret123"})
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateResource))
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthenticationFailed))

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "secret123"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthenticationFailed))

	// A banned account is rejected even with correct credentials.
	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	stored.Enabled = false
	require.NoError(t, users.Update(ctx, stored))

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestLoginTwiceOnlyNewestRefreshTokenRedeems(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	first, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	refreshed, err := svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", refreshed.Username)

	// The redeemed token is single use.
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.Error(t, err)
}

func TestGoogleLoginCreatesAccount(t *testing.T) {
	verifier := &fakeGoogleVerifier{claims: &GoogleTokenClaims{
		Email:      "jane.doe@gmail.com",
		Name:       "Jane Doe",
		PictureURL: "https://example.com/jane.png",
	}}
	svc, users, _ := newTestAuthService(t, verifier)
	ctx := context.Background()

	auth, err := svc.LoginWithGoogle(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", auth.Username)

	stored, err := users.GetByEmail(ctx, "jane.doe@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, model.ProviderGoogle, stored.Provider)
	assert.Equal(t, "https://example.com/jane.png", stored.ProfileImageURL)
	assert.True(t, stored.Enabled)

	// Second login reuses the existing account.
	again, err := svc.LoginWithGoogle(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", again.Username)
}

func TestGoogleLoginUsernameCollision(t *testing.T) {
	verifier := &fakeGoogleVerifier{claims: &GoogleTokenClaims{
		Email: "jane.doe@gmail.com",
		Name:  "Jane Doe",
	}}
	svc, users, _ := newTestAuthService(t, verifier)
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	require.NoError(t, err)
	taken := &model.User{Username: "janedoe", Email: "other@example.com", Password: string(hashed), Enabled: true, Provider: model.ProviderLocal}
	taken.SetRoles(model.RoleUser)
	require.NoError(t, users.Create(ctx, taken))

	auth, err := svc.LoginWithGoogle(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, "janedoe1", auth.Username)
}

func TestGoogleLoginBannedAccount(t *testing.T) {
	verifier := &fakeGoogleVerifier{claims: &GoogleTokenClaims{Email: "jane@gmail.com", Name: "Jane"}}
	svc, users, _ := newTestAuthService(t, verifier)
	ctx := context.Background()

	_, err := svc.LoginWithGoogle(ctx, "raw-id-token")
	require.NoError(t, err)

	stored, err := users.GetByEmail(ctx, "jane@gmail.com")
	require.NoError(t, err)
	stored.Enabled = false
	require.NoError(t, users.Update(ctx, stored))

	_, err = svc.LoginWithGoogle(ctx, "raw-id-token")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestGoogleLoginVerifierRejection(t *testing.T) {
	verifier := &fakeGoogleVerifier{err: apperr.AuthFailed("invalid google id token")}
	svc, _, _ := newTestAuthService(t, verifier)

	_, err := svc.LoginWithGoogle(context.Background(), "bad-token")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthenticationFailed))
}
