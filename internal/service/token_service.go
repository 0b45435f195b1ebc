package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig holds signing material and token lifetimes.
type TokenConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenConfigFromEnv reads token settings from the environment with
// development defaults.
func TokenConfigFromEnv(secret []byte) TokenConfig {
	accessSeconds := 3600
	if v, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_TTL_SECONDS")); err == nil && v > 0 {
		accessSeconds = v
	}
	refreshMinutes := 7 * 24 * 60
	if v, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_TTL_MINUTES")); err == nil && v > 0 {
		refreshMinutes = v
	}
	return TokenConfig{
		Secret:     secret,
		AccessTTL:  time.Duration(accessSeconds) * time.Second,
		RefreshTTL: time.Duration(refreshMinutes) * time.Minute,
	}
}

// TokenPair bundles a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService issues, validates and rotates access/refresh tokens.
//
// Refresh token state machine: ISSUED -> USED (redeemed exactly once) or
// ISSUED -> deleted (redeemed while expired/invalid). A token never
// re-enters ISSUED.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, username string) (string, error)
	GenerateRefreshToken(ctx context.Context, username string) (*model.RefreshToken, error)
	GenerateTokenPair(ctx context.Context, username string) (*TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshTokenValue string) (string, error)
	ValidateToken(tokenString, expectedUsername string) error
	RevokeAll(ctx context.Context, username string) error
	CleanupExpired(ctx context.Context) error
}

type tokenService struct {
	cfg       TokenConfig
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	txManager repository.TransactionManager
}

// NewTokenService returns a new instance of TokenService
func NewTokenService(
	cfg TokenConfig,
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	txManager repository.TransactionManager,
) TokenService {
	return &tokenService{
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		txManager: txManager,
	}
}

func (s *tokenService) GenerateAccessToken(ctx context.Context, username string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return "", apperr.NotFound("user not found: " + username)
		}
		return "", apperr.Internal("failed to load user", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         user.Username,
		"authorities": user.RoleList(),
		"iat":         now.Unix(),
		"exp":         now.Add(s.cfg.AccessTTL).Unix(),
	})

	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", apperr.Internal("failed to sign access token", err)
	}
	return signed, nil
}

// GenerateRefreshToken invalidates every prior refresh token for the
// username, then creates a new opaque one. Both steps run in one
// transaction so concurrent logins cannot leave two live tokens.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, username string) (*model.RefreshToken, error) {
	var created *model.RefreshToken

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tokenRepo.MarkAllUsedByUsername(txCtx, username); err != nil {
			return apperr.Internal("failed to invalidate prior refresh tokens", err)
		}

		token := &model.RefreshToken{
			Token:     uuid.NewString() + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10),
			Username:  username,
			ExpiresAt: time.Now().Add(s.cfg.RefreshTTL),
		}
		if err := s.tokenRepo.Create(txCtx, token); err != nil {
			return apperr.Internal("failed to create refresh token", err)
		}
		created = token
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *tokenService) GenerateTokenPair(ctx context.Context, username string) (*TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(ctx, username)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.GenerateRefreshToken(ctx, username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken.Token}, nil
}

// RefreshAccessToken redeems a refresh token exactly once. A valid token
// is marked used and yields its owning username; an expired or already
// used token is deleted and the call fails Unauthorized.
func (s *tokenService) RefreshAccessToken(ctx context.Context, refreshTokenValue string) (string, error) {
	var username string
	var invalid bool

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		token, err := s.tokenRepo.GetByToken(txCtx, refreshTokenValue)
		if err != nil {
			if isNotFound(err) {
				return apperr.NotFound("refresh token not found")
			}
			return apperr.Internal("failed to load refresh token", err)
		}

		if !token.Used && !token.IsExpired() {
			token.Used = true
			if err := s.tokenRepo.Update(txCtx, token); err != nil {
				return apperr.Internal("failed to consume refresh token", err)
			}
			username = token.Username
			return nil
		}

		// One-shot rotation: a failed redemption destroys the token.
		// Return nil here so the delete commits instead of rolling back.
		if err := s.tokenRepo.Delete(txCtx, token); err != nil {
			return apperr.Internal("failed to delete refresh token", err)
		}
		invalid = true
		return nil
	})
	if err != nil {
		return "", err
	}
	if invalid {
		return "", apperr.Unauthorized("refresh token is invalid")
	}
	return username, nil
}

func (s *tokenService) ValidateToken(tokenString, expectedUsername string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apperr.TokenExpired("token has expired")
		}
		return apperr.AuthFailed("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return apperr.AuthFailed("token claims are invalid")
	}
	subject, _ := claims["sub"].(string)
	if subject != expectedUsername {
		return apperr.AuthFailed("token subject mismatch")
	}
	return nil
}

func (s *tokenService) RevokeAll(ctx context.Context, username string) error {
	if err := s.tokenRepo.DeleteByUsername(ctx, username); err != nil {
		return apperr.Internal("failed to revoke refresh tokens", err)
	}
	return nil
}

// CleanupExpired removes every expired refresh token. Idempotent; safe
// to run from a periodic job without coordination.
func (s *tokenService) CleanupExpired(ctx context.Context) error {
	if err := s.tokenRepo.DeleteExpired(ctx, time.Now()); err != nil {
		return apperr.Internal("failed to clean up expired refresh tokens", err)
	}
	return nil
}
