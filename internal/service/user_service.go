package service

import (
	"context"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Username        string `json:"username" binding:"omitempty,min=3,max=50"`
	Email           string `json:"email" binding:"omitempty,email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type DtoUser struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Enabled         bool      `json:"enabled"`
	Provider        string    `json:"provider"`
	Roles           []string  `json:"roles"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

type UpdateProfileResponse struct {
	User   DtoUser    `json:"user"`
	Tokens *TokenPair `json:"tokens,omitempty"`
}

type UserService interface {
	GetByUsername(ctx context.Context, username string) (*DtoUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DtoUser, error)
	UpdateProfile(ctx context.Context, username string, req UpdateProfileRequest) (*UpdateProfileResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, page, limit int) ([]DtoUser, int64, error)
	ToggleBan(ctx context.Context, id uuid.UUID) (*DtoUser, error)
	ToggleRole(ctx context.Context, id uuid.UUID) (*DtoUser, error)
}

type userService struct {
	userRepo     repository.UserRepository
	commentRepo  repository.CommentRepository
	tokenService TokenService
	txManager    repository.TransactionManager
}

// NewUserService returns a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	tokenService TokenService,
	txManager repository.TransactionManager,
) UserService {
	return &userService{
		userRepo:     userRepo,
		commentRepo:  commentRepo,
		tokenService: tokenService,
		txManager:    txManager,
	}
}

func toDtoUser(u *model.User) DtoUser {
	return DtoUser{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Enabled:         u.Enabled,
		Provider:        u.Provider,
		Roles:           u.RoleList(),
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*DtoUser, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}
	dto := toDtoUser(user)
	return &dto, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*DtoUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	dto := toDtoUser(user)
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, username string, req UpdateProfileRequest) (*UpdateProfileResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}

	usernameChanged := false
	if req.Username != "" && req.Username != user.Username {
		if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
			return nil, apperr.Duplicate("username is already taken")
		}
		user.Username = req.Username
		usernameChanged = true
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperr.Duplicate("email is already registered")
		}
		user.Email = req.Email
	}
	if req.ProfileImageURL != "" {
		user.ProfileImageURL = req.ProfileImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindDataIntegrity, "failed to update user", err)
	}

	resp := &UpdateProfileResponse{User: toDtoUser(user)}
	if usernameChanged {
		// Access tokens carry the username in sub; a rename needs new ones.
		if err := s.tokenService.RevokeAll(ctx, username); err != nil {
			return nil, err
		}
		pair, err := s.tokenService.GenerateTokenPair(ctx, user.Username)
		if err != nil {
			return nil, err
		}
		resp.Tokens = pair
	}
	return resp, nil
}

func (s *userService) deleteUser(ctx context.Context, user *model.User) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.commentRepo.DeleteByUserID(txCtx, user.ID); err != nil {
			return apperr.Internal("failed to delete user comments", err)
		}
		if err := s.tokenService.RevokeAll(txCtx, user.Username); err != nil {
			return err
		}
		if err := s.userRepo.Delete(txCtx, user.ID); err != nil {
			return apperr.Internal("failed to delete user", err)
		}
		log.Printf("user deleted: %s", user.Username)
		return nil
	})
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return apperr.NotFound("user not found: " + username)
	}
	return s.deleteUser(ctx, user)
}

func (s *userService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return apperr.NotFound("user not found")
	}
	return s.deleteUser(ctx, user)
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]DtoUser, int64, error) {
	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}
	dtos := make([]DtoUser, 0, len(users))
	for i := range users {
		dtos = append(dtos, toDtoUser(&users[i]))
	}
	return dtos, total, nil
}

func (s *userService) ToggleBan(ctx context.Context, id uuid.UUID) (*DtoUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	user.Enabled = !user.Enabled

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	if !user.Enabled {
		// Banning kills active sessions, not just future logins.
		if err := s.tokenService.RevokeAll(ctx, user.Username); err != nil {
			return nil, err
		}
	}
	log.Printf("user ban toggled: %s enabled=%t", user.Username, user.Enabled)

	dto := toDtoUser(user)
	return &dto, nil
}

func (s *userService) ToggleRole(ctx context.Context, id uuid.UUID) (*DtoUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if user.IsAdmin() {
		user.SetRoles(model.RoleUser)
	} else {
		user.SetRoles(model.RoleUser, model.RoleAdmin)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	// Role claims live inside issued access tokens; force a re-login.
	if err := s.tokenService.RevokeAll(ctx, user.Username); err != nil {
		return nil, err
	}
	log.Printf("user role toggled: %s admin=%t", user.Username, user.IsAdmin())

	dto := toDtoUser(user)
	return &dto, nil
}
