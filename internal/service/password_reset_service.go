package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	ResetToken         string `json:"resetToken" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

type VerifyResetCodeResponse struct {
	ResetToken string `json:"resetToken"`
}

// PasswordResetService runs the three-step OTP reset flow: request a
// code by email, trade the code for a reset token, then set the new
// password with that token.
type PasswordResetService interface {
	InitiateReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (*VerifyResetCodeResponse, error)
	ResetPassword(ctx context.Context, resetToken, newPassword, confirmPassword string) error
}

type passwordResetService struct {
	userRepo     repository.UserRepository
	resetRepo    repository.PasswordResetTokenRepository
	tokenService TokenService
	emailSender  EmailSender
	txManager    repository.TransactionManager
	otpTTL       time.Duration
}

// NewPasswordResetService returns a new instance of PasswordResetService
func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetTokenRepository,
	tokenService TokenService,
	emailSender EmailSender,
	txManager repository.TransactionManager,
) PasswordResetService {
	ttl := 150 * time.Second
	if raw := os.Getenv("RESET_OTP_TTL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return &passwordResetService{
		userRepo:     userRepo,
		resetRepo:    resetRepo,
		tokenService: tokenService,
		emailSender:  emailSender,
		txManager:    txManager,
		otpTTL:       ttl,
	}
}

func (s *passwordResetService) InitiateReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperr.NotFound("no account found for this email")
	}
	if user.Provider == model.ProviderGoogle {
		return apperr.BusinessRule("google accounts cannot reset their password here")
	}

	otp := fmt.Sprintf("%06d", rand.Intn(1000000))

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.resetRepo.GetByUserID(txCtx, user.ID); err == nil {
			if !existing.IsExpired() {
				return apperr.BusinessRule("a reset code was already sent, try again later")
			}
			if err := s.resetRepo.Delete(txCtx, existing); err != nil {
				return apperr.Internal("failed to replace reset token", err)
			}
		}

		token := &model.PasswordResetToken{
			OTP:       otp,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(s.otpTTL),
		}
		if err := s.resetRepo.Create(txCtx, token); err != nil {
			return apperr.Internal("failed to create reset token", err)
		}

		if err := s.emailSender.SendOTPEmail(user.Email, otp); err != nil {
			return apperr.Internal("failed to send reset email", err)
		}
		log.Printf("password reset code sent: %s", user.Username)
		return nil
	})
}

func (s *passwordResetService) VerifyOTP(ctx context.Context, email, otp string) (*VerifyResetCodeResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.NotFound("no account found for this email")
	}

	token, err := s.resetRepo.GetByUserID(ctx, user.ID)
	if err != nil || token.OTP != otp {
		return nil, apperr.BadRequest("invalid reset code")
	}
	if token.IsExpired() {
		if err := s.resetRepo.Delete(ctx, token); err != nil {
			return nil, apperr.Internal("failed to delete reset token", err)
		}
		return nil, apperr.BusinessRule("reset code has expired")
	}

	token.ResetToken = uuid.NewString()
	if err := s.resetRepo.Update(ctx, token); err != nil {
		return nil, apperr.Internal("failed to update reset token", err)
	}

	return &VerifyResetCodeResponse{ResetToken: token.ResetToken}, nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, resetToken, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperr.BadRequest("passwords do not match")
	}
	token, err := s.resetRepo.GetByResetToken(ctx, resetToken)
	if err != nil {
		return apperr.BadRequest("invalid reset token")
	}
	if token.IsExpired() {
		return apperr.BusinessRule("reset token has expired")
	}
	user := &token.User
	if user.Provider == model.ProviderGoogle {
		return apperr.BusinessRule("google accounts cannot reset their password here")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user.Password = string(hashed)
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return apperr.Internal("failed to update password", err)
		}
		// Changing a password logs the user out everywhere.
		if err := s.tokenService.RevokeAll(txCtx, user.Username); err != nil {
			return err
		}
		if err := s.resetRepo.Delete(txCtx, token); err != nil {
			return apperr.Internal("failed to delete reset token", err)
		}
		log.Printf("password reset completed: %s", user.Username)
		return nil
	})
}
