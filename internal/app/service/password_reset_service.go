package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)

const (
	// ResetTokenExpiry is the duration for which a reset token is valid
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength is the byte length of the reset token
	ResetTokenLength = 32
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	resetRepo    repository.PasswordResetRepository
	userRepo     repository.UserRepository
	emailService EmailService
	baseURL      string
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	baseURL string,
) PasswordResetService {
	return &passwordResetService{
		resetRepo:    resetRepo,
		userRepo:     userRepo,
		emailService: emailService,
		baseURL:      baseURL,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Reported as success so the endpoint never reveals whether an
			// email is registered.
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	reset := &model.PasswordReset{
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(ResetTokenExpiry),
		Used:      false,
	}

	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to create password reset record", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	resetURL := fmt.Sprintf("%s/restablecer-contrasena?token=%s", s.baseURL, url.QueryEscape(token))
	if err := s.emailService.SendPasswordResetEmail(email, resetURL); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"email":      email,
		"expires_at": reset.ExpiresAt,
		"user_id":    user.ID,
	})

	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Processing password reset with token")

	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Invalid reset token provided", nil)
			return ErrInvalidResetToken
		}
		logger.Error("Failed to find reset record", err, nil)
		return err
	}

	if time.Now().After(reset.ExpiresAt) {
		logger.Warn("Reset token has expired", map[string]interface{}{
			"email":      reset.Email,
			"expires_at": reset.ExpiresAt,
		})
		return ErrResetTokenExpired
	}

	if reset.Used {
		logger.Warn("Reset token has already been used", map[string]interface{}{
			"email": reset.Email,
		})
		return ErrResetTokenUsed
	}

	user, err := s.userRepo.FindByEmail(reset.Email)
	if err != nil {
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": reset.Email,
		})
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Error("Failed to mark reset token as used", err, map[string]interface{}{
			"reset_id": reset.ID,
		})
		// Password was already updated, so the reset still succeeded.
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return nil
}

// generateResetToken creates a cryptographically secure random token
func generateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
