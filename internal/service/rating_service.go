package service

import (
	"context"
	"log"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RateFilmRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

type DtoRating struct {
	FilmID        uuid.UUID `json:"filmId"`
	Score         int       `json:"score"`
	AverageRating float64   `json:"averageRating"`
	RatingCount   int64     `json:"ratingCount"`
}

type RatingService interface {
	Rate(ctx context.Context, username string, filmID uuid.UUID, score int) (*DtoRating, error)
	Delete(ctx context.Context, username string, filmID uuid.UUID) error
	GetOwn(ctx context.Context, username string, filmID uuid.UUID) (int, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	filmRepo   repository.FilmRepository
	userRepo   repository.UserRepository
	txManager  repository.TransactionManager
	hub        *websocket.Hub
}

// NewRatingService returns a new instance of RatingService
func NewRatingService(
	ratingRepo repository.RatingRepository,
	filmRepo repository.FilmRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		filmRepo:   filmRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		hub:        hub,
	}
}

// refreshStats recomputes the denormalized rating columns on the film.
// Must run inside the same transaction as the rating write.
func (s *ratingService) refreshStats(ctx context.Context, film *model.Film) error {
	avg, count, err := s.ratingRepo.Stats(ctx, film.ID)
	if err != nil {
		return apperr.Internal("failed to compute rating stats", err)
	}
	rounded, _ := decimal.NewFromFloat(avg).Round(1).Float64()
	film.AverageRating = rounded
	film.RatingCount = count
	if err := s.filmRepo.Update(ctx, film); err != nil {
		return apperr.Internal("failed to update film rating stats", err)
	}
	return nil
}

func (s *ratingService) Rate(ctx context.Context, username string, filmID uuid.UUID, score int) (*DtoRating, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.NotFound("user not found: " + username)
	}
	film, err := s.filmRepo.GetByID(ctx, filmID)
	if err != nil {
		return nil, apperr.NotFound("film not found")
	}

	var dto *DtoRating
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rating, err := s.ratingRepo.GetByUserAndFilm(txCtx, user.ID, filmID)
		if err != nil {
			if !isNotFound(err) {
				return apperr.Internal("failed to load rating", err)
			}
			rating = &model.Rating{UserID: user.ID, FilmID: filmID}
		}
		rating.Score = score
		if err := s.ratingRepo.Save(txCtx, rating); err != nil {
			return apperr.Wrap(apperr.KindDataIntegrity, "failed to save rating", err)
		}
		if err := s.refreshStats(txCtx, film); err != nil {
			return err
		}
		dto = &DtoRating{
			FilmID:        filmID,
			Score:         score,
			AverageRating: film.AverageRating,
			RatingCount:   film.RatingCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("film rated: %s score=%d by %s", film.Title, score, username)

	s.hub.Publish(websocket.EventRatingUpdated, dto)
	return dto, nil
}

func (s *ratingService) Delete(ctx context.Context, username string, filmID uuid.UUID) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return apperr.NotFound("user not found: " + username)
	}
	film, err := s.filmRepo.GetByID(ctx, filmID)
	if err != nil {
		return apperr.NotFound("film not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.ratingRepo.GetByUserAndFilm(txCtx, user.ID, filmID); err != nil {
			return apperr.NotFound("rating not found")
		}
		if err := s.ratingRepo.Delete(txCtx, user.ID, filmID); err != nil {
			return apperr.Internal("failed to delete rating", err)
		}
		if err := s.refreshStats(txCtx, film); err != nil {
			return err
		}
		s.hub.Publish(websocket.EventRatingUpdated, DtoRating{
			FilmID:        filmID,
			AverageRating: film.AverageRating,
			RatingCount:   film.RatingCount,
		})
		return nil
	})
}

func (s *ratingService) GetOwn(ctx context.Context, username string, filmID uuid.UUID) (int, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, apperr.NotFound("user not found: " + username)
	}
	rating, err := s.ratingRepo.GetByUserAndFilm(ctx, user.ID, filmID)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, apperr.Internal("failed to load rating", err)
	}
	return rating.Score, nil
}
