package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// RefreshTokenRepository defines data access for refresh tokens.
// MarkAllUsedByUsername plus Create run inside one transaction per
// issuance so two concurrent logins cannot leave two live tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	MarkAllUsedByUsername(ctx context.Context, username string) error
	Update(ctx context.Context, token *model.RefreshToken) error
	Delete(ctx context.Context, token *model.RefreshToken) error
	DeleteByUsername(ctx context.Context, username string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository returns a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	if err := GetDB(ctx, r.db).First(&rt, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) MarkAllUsedByUsername(ctx context.Context, username string) error {
	return GetDB(ctx, r.db).
		Model(&model.RefreshToken{}).
		Where("username = ? AND used = false", username).
		Update("used", true).Error
}

func (r *refreshTokenRepository) Update(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Save(token).Error
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Delete(token).Error
}

func (r *refreshTokenRepository) DeleteByUsername(ctx context.Context, username string) error {
	return GetDB(ctx, r.db).Where("username = ?", username).Delete(&model.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return GetDB(ctx, r.db).Where("expires_at < ?", now).Delete(&model.RefreshToken{}).Error
}
