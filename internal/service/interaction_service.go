package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// InteractionService manages the per-user favorite and watched lists.
// Adds are idempotent; removes of missing entries report not found.
type InteractionService interface {
	AddFavorite(ctx context.Context, username string, filmID uuid.UUID) error
	RemoveFavorite(ctx context.Context, username string, filmID uuid.UUID) error
	ListFavorites(ctx context.Context, username string) ([]DtoFilm, error)
	AddWatched(ctx context.Context, username string, filmID uuid.UUID) error
	RemoveWatched(ctx context.Context, username string, filmID uuid.UUID) error
	ListWatched(ctx context.Context, username string) ([]DtoFilm, error)
}

type interactionService struct {
	favoriteRepo repository.FavoriteRepository
	watchedRepo  repository.WatchedRepository
	userRepo     repository.UserRepository
	filmRepo     repository.FilmRepository
}

// NewInteractionService returns a new instance of InteractionService
func NewInteractionService(
	favoriteRepo repository.FavoriteRepository,
	watchedRepo repository.WatchedRepository,
	userRepo repository.UserRepository,
	filmRepo repository.FilmRepository,
) InteractionService {
	return &interactionService{
		favoriteRepo: favoriteRepo,
		watchedRepo:  watchedRepo,
		userRepo:     userRepo,
		filmRepo:     filmRepo,
	}
}

func (s *interactionService) resolve(ctx context.Context, username string, filmID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}
	if _, err := s.filmRepo.GetByID(ctx, filmID); err != nil {
		return nil, apperr.NotFound("film not found")
	}
	return user, nil
}

func (s *interactionService) AddFavorite(ctx context.Context, username string, filmID uuid.UUID) error {
	user, err := s.resolve(ctx, username, filmID)
	if err != nil {
		return err
	}
	exists, err := s.favoriteRepo.Exists(ctx, user.ID, filmID)
	if err != nil {
		return apperr.Internal("failed to check favorite", err)
	}
	if exists {
		return nil
	}
	if err := s.favoriteRepo.Create(ctx, &model.Favorite{UserID: user.ID, FilmID: filmID}); err != nil {
		return apperr.Wrap(apperr.KindDataIntegrity, "failed to add favorite", err)
	}
	return nil
}

func (s *interactionService) RemoveFavorite(ctx context.Context, username string, filmID uuid.UUID) error {
	user, err := s.resolve(ctx, username, filmID)
	if err != nil {
		return err
	}
	if _, err := s.favoriteRepo.GetByUserAndFilm(ctx, user.ID, filmID); err != nil {
		return apperr.NotFound("film is not in favorites")
	}
	if err := s.favoriteRepo.Delete(ctx, user.ID, filmID); err != nil {
		return apperr.Internal("failed to remove favorite", err)
	}
	return nil
}

func (s *interactionService) ListFavorites(ctx context.Context, username string) ([]DtoFilm, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}
	films, err := s.favoriteRepo.ListFilmsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list favorites", err)
	}
	return toDtoFilms(films), nil
}

func (s *interactionService) AddWatched(ctx context.Context, username string, filmID uuid.UUID) error {
	user, err := s.resolve(ctx, username, filmID)
	if err != nil {
		return err
	}
	exists, err := s.watchedRepo.Exists(ctx, user.ID, filmID)
	if err != nil {
		return apperr.Internal("failed to check watched", err)
	}
	if exists {
		return nil
	}
	if err := s.watchedRepo.Create(ctx, &model.Watched{UserID: user.ID, FilmID: filmID}); err != nil {
		return apperr.Wrap(apperr.KindDataIntegrity, "failed to add watched", err)
	}
	return nil
}

func (s *interactionService) RemoveWatched(ctx context.Context, username string, filmID uuid.UUID) error {
	user, err := s.resolve(ctx, username, filmID)
	if err != nil {
		return err
	}
	if _, err := s.watchedRepo.GetByUserAndFilm(ctx, user.ID, filmID); err != nil {
		return apperr.NotFound("film is not in watched list")
	}
	if err := s.watchedRepo.Delete(ctx, user.ID, filmID); err != nil {
		return apperr.Internal("failed to remove watched", err)
	}
	return nil
}

func (s *interactionService) ListWatched(ctx context.Context, username string) ([]DtoFilm, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}
	films, err := s.watchedRepo.ListFilmsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list watched films", err)
	}
	return toDtoFilms(films), nil
}
