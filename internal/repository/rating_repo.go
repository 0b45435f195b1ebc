package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingRepository defines the interface for data access of Rating entities
type RatingRepository interface {
	GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*model.Rating, error)
	Save(ctx context.Context, rating *model.Rating) error
	Delete(ctx context.Context, userID, filmID uuid.UUID) error
	Stats(ctx context.Context, filmID uuid.UUID) (avg float64, count int64, err error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new instance of RatingRepository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*model.Rating, error) {
	var rating model.Rating
	if err := GetDB(ctx, r.db).First(&rating, "user_id = ? AND film_id = ?", userID, filmID).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Save(ctx context.Context, rating *model.Rating) error {
	return GetDB(ctx, r.db).Save(rating).Error
}

func (r *ratingRepository) Delete(ctx context.Context, userID, filmID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&model.Rating{}).Error
}

func (r *ratingRepository) Stats(ctx context.Context, filmID uuid.UUID) (float64, int64, error) {
	var result struct {
		Avg   *float64
		Count int64
	}
	err := GetDB(ctx, r.db).
		Model(&model.Rating{}).
		Select("AVG(score) AS avg, COUNT(*) AS count").
		Where("film_id = ?", filmID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	avg := 0.0
	if result.Avg != nil {
		avg = *result.Avg
	}
	return avg, result.Count, nil
}
