package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FilmRepository defines the interface for data access of Film entities
type FilmRepository interface {
	Create(ctx context.Context, film *model.Film) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Film, error)
	List(ctx context.Context, listingType string) ([]model.Film, error)
	SearchByTitle(ctx context.Context, query string) ([]model.Film, error)
	Update(ctx context.Context, film *model.Film) error
	ReplaceCategories(ctx context.Context, film *model.Film, categories []model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByTitle(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error)
	ExistsByPosterURL(ctx context.Context, posterURL string, excludeID *uuid.UUID) (bool, error)
	ExistsByTrailerURL(ctx context.Context, trailerURL string, excludeID *uuid.UUID) (bool, error)
}

type filmRepository struct {
	db *gorm.DB
}

// NewFilmRepository returns a new instance of FilmRepository
func NewFilmRepository(db *gorm.DB) FilmRepository {
	return &filmRepository{db: db}
}

func (r *filmRepository) Create(ctx context.Context, film *model.Film) error {
	return GetDB(ctx, r.db).Create(film).Error
}

func (r *filmRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Film, error) {
	var film model.Film
	if err := GetDB(ctx, r.db).Preload("Categories").First(&film, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &film, nil
}

func (r *filmRepository) List(ctx context.Context, listingType string) ([]model.Film, error) {
	var films []model.Film
	q := GetDB(ctx, r.db).Preload("Categories").Order("created_at DESC")
	if listingType != "" {
		q = q.Where("listing_type = ?", listingType)
	}
	if err := q.Find(&films).Error; err != nil {
		return nil, err
	}
	return films, nil
}

func (r *filmRepository) SearchByTitle(ctx context.Context, query string) ([]model.Film, error) {
	var films []model.Film
	if err := GetDB(ctx, r.db).
		Preload("Categories").
		Where("title ILIKE ?", "%"+query+"%").
		Find(&films).Error; err != nil {
		return nil, err
	}
	return films, nil
}

func (r *filmRepository) Update(ctx context.Context, film *model.Film) error {
	return GetDB(ctx, r.db).Omit("Categories").Save(film).Error
}

func (r *filmRepository) ReplaceCategories(ctx context.Context, film *model.Film, categories []model.Category) error {
	return GetDB(ctx, r.db).Model(film).Association("Categories").Replace(categories)
}

func (r *filmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Film{ID: id}).Association("Categories").Clear(); err != nil {
		return err
	}
	return db.Delete(&model.Film{}, "id = ?", id).Error
}

func (r *filmRepository) exists(ctx context.Context, column, value string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Film{}).Where(column+" = ?", value)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *filmRepository) ExistsByTitle(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "title", title, excludeID)
}

func (r *filmRepository) ExistsByPosterURL(ctx context.Context, posterURL string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "poster_url", posterURL, excludeID)
}

func (r *filmRepository) ExistsByTrailerURL(ctx context.Context, trailerURL string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "trailer_url", trailerURL, excludeID)
}
