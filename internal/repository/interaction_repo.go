package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteRepository defines data access for the favorites list.
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, filmID uuid.UUID) (bool, error)
	Create(ctx context.Context, favorite *model.Favorite) error
	GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*model.Favorite, error)
	Delete(ctx context.Context, userID, filmID uuid.UUID) error
	ListFilmsByUser(ctx context.Context, userID uuid.UUID) ([]model.Film, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new instance of FavoriteRepository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, filmID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Favorite{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	return count > 0, err
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	return GetDB(ctx, r.db).Create(favorite).Error
}

func (r *favoriteRepository) GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*model.Favorite, error) {
	var fav model.Favorite
	if err := GetDB(ctx, r.db).First(&fav, "user_id = ? AND film_id = ?", userID, filmID).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, filmID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&model.Favorite{}).Error
}

func (r *favoriteRepository) ListFilmsByUser(ctx context.Context, userID uuid.UUID) ([]model.Film, error) {
	var films []model.Film
	err := GetDB(ctx, r.db).
		Joins("JOIN favorites ON favorites.film_id = films.id").
		Where("favorites.user_id = ?", userID).
		Preload("Categories").
		Order("favorites.created_at DESC").
		Find(&films).Error
	return films, err
}

// WatchedRepository defines data access for the watched list.
type WatchedRepository interface {
	Exists(ctx context.Context, userID, filmID uuid.UUID) (bool, error)
	Create(ctx context.Context, watched *model.Watched) error
	GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*model.Watched, error)
	Delete(ctx context.Context, userID, filmID uuid.UUID) error
	ListFilmsByUser(ctx context.Context, userID uuid.UUID) ([]model.Film, error)
}

type watchedRepository struct {
	db *gorm.DB
}

// NewWatchedRepository returns a new instance of WatchedRepository
func NewWatchedRepository(db *gorm.DB) WatchedRepository {
	return &watchedRepository{db: db}
}

func (r *watchedRepository) Exists(ctx context.Context, userID, filmID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Watched{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	return count > 0, err
}

func (r *watchedRepository) Create(ctx context.Context, watched *model.Watched) error {
	return GetDB(ctx, r.db).Create(watched).Error
}

func (r *watchedRepository) GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*model.Watched, error) {
	var w model.Watched
	if err := GetDB(ctx, r.db).First(&w, "user_id = ? AND film_id = ?", userID, filmID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *watchedRepository) Delete(ctx context.Context, userID, filmID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&model.Watched{}).Error
}

func (r *watchedRepository) ListFilmsByUser(ctx context.Context, userID uuid.UUID) ([]model.Film, error) {
	var films []model.Film
	err := GetDB(ctx, r.db).
		Joins("JOIN watcheds ON watcheds.film_id = films.id").
		Where("watcheds.user_id = ?", userID).
		Preload("Categories").
		Order("watcheds.created_at DESC").
		Find(&films).Error
	return films, err
}
