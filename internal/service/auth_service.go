package service

import (
	"context"
	"log"
	"strconv"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for auth endpoints
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// AuthService covers registration, password and Google login, and the
// refresh flow. Every success path ends in a freshly minted token pair.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshTokenValue string) (*AuthResponse, error)
}

type authService struct {
	userRepo     repository.UserRepository
	tokenService TokenService
	verifier     GoogleTokenVerifier
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokenService TokenService,
	verifier GoogleTokenVerifier,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenService: tokenService,
		verifier:     verifier,
	}
}

func primaryRole(user *model.User) string {
	if user.IsAdmin() {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func (s *authService) respond(ctx context.Context, user *model.User) (*AuthResponse, error) {
	pair, err := s.tokenService.GenerateTokenPair(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Username:     user.Username,
		Role:         primaryRole(user),
	}, nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Duplicate("username is already taken")
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Duplicate("email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Enabled:  true,
		Provider: model.ProviderLocal,
	}
	user.SetRoles(model.RoleUser)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to create user", err)
	}
	log.Printf("user registered: %s", user.Username)

	return s.respond(ctx, user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.AuthFailed("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.AuthFailed("invalid username or password")
	}
	if !user.Enabled {
		return nil, apperr.Forbidden("account is disabled")
	}

	return s.respond(ctx, user)
}

func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResponse, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	log.Printf("google login detected: %s", claims.Email)

	user, err := s.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if !isNotFound(err) {
			return nil, apperr.Internal("failed to load user", err)
		}
		user, err = s.createGoogleUser(ctx, claims)
		if err != nil {
			return nil, err
		}
	}
	if !user.Enabled {
		return nil, apperr.Forbidden("account is disabled")
	}

	return s.respond(ctx, user)
}

func (s *authService) createGoogleUser(ctx context.Context, claims *GoogleTokenClaims) (*model.User, error) {
	log.Printf("creating new google user: %s", claims.Email)

	base := strings.ToLower(strings.ReplaceAll(claims.Name, " ", ""))
	if base == "" {
		base = strings.SplitN(claims.Email, "@", 2)[0]
	}
	username := base
	for counter := 1; ; counter++ {
		if _, err := s.userRepo.GetByUsername(ctx, username); err != nil {
			break
		}
		username = base + strconv.Itoa(counter)
	}

	// Google accounts never log in with a password; store a random one.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &model.User{
		Username:        username,
		Email:           claims.Email,
		Password:        string(hashed),
		Enabled:         true,
		Provider:        model.ProviderGoogle,
		ProfileImageURL: claims.PictureURL,
	}
	user.SetRoles(model.RoleUser)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to create user", err)
	}
	return user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshTokenValue string) (*AuthResponse, error) {
	username, err := s.tokenService.RefreshAccessToken(ctx, refreshTokenValue)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}
	return s.respond(ctx, user)
}
