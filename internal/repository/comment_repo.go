package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for data access of Comment entities
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByFilm(ctx context.Context, filmID uuid.UUID) ([]model.Comment, error)
	CountReplies(ctx context.Context, parentID uuid.UUID) (int64, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return GetDB(ctx, r.db).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := GetDB(ctx, r.db).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByFilm(ctx context.Context, filmID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	if err := GetDB(ctx, r.db).
		Preload("User").
		Where("film_id = ?", filmID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountReplies(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).
		Model(&model.Comment{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return GetDB(ctx, r.db).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Comment{}, "id = ?", id).Error
}

func (r *commentRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.Comment{}).Error
}
