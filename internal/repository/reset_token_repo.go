package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetTokenRepository defines data access for password reset tokens.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PasswordResetToken, error)
	GetByOTPAndUserID(ctx context.Context, otp string, userID uuid.UUID) (*model.PasswordResetToken, error)
	GetByResetToken(ctx context.Context, resetToken string) (*model.PasswordResetToken, error)
	Update(ctx context.Context, token *model.PasswordResetToken) error
	Delete(ctx context.Context, token *model.PasswordResetToken) error
}

type passwordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository returns a new instance of PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *gorm.DB) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

func (r *passwordResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

func (r *passwordResetTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := GetDB(ctx, r.db).First(&t, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetTokenRepository) GetByOTPAndUserID(ctx context.Context, otp string, userID uuid.UUID) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := GetDB(ctx, r.db).First(&t, "otp = ? AND user_id = ?", otp, userID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetTokenRepository) GetByResetToken(ctx context.Context, resetToken string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := GetDB(ctx, r.db).Preload("User").First(&t, "reset_token = ?", resetToken).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetTokenRepository) Update(ctx context.Context, token *model.PasswordResetToken) error {
	return GetDB(ctx, r.db).Save(token).Error
}

func (r *passwordResetTokenRepository) Delete(ctx context.Context, token *model.PasswordResetToken) error {
	return GetDB(ctx, r.db).Delete(token).Error
}
