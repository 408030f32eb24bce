package service

import (
	"context"
	"errors"
	"time"

	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/viptalca/viptalca-backend/pkg/redis"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthService interface {
	Login(email, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user during login", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to get user by ID", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair. The
// used refresh token is blacklisted so each one can be redeemed only once.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != util.TokenTypeRefresh {
		logger.Warn("Refresh attempted with a non-refresh token", map[string]interface{}{
			"user_id":    claims.UserID,
			"token_type": claims.TokenType,
		})
		return nil, util.ErrInvalidToken
	}

	if redis.IsTokenBlacklisted(ctx, refreshToken) {
		logger.Warn("Refresh attempted with a revoked token", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, ErrTokenRevoked
	}

	// Re-read the user so role or account changes take effect on refresh.
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to load user during token refresh", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens on refresh", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	if err := s.revokeToken(ctx, refreshToken); err != nil {
		logger.Error("Failed to revoke used refresh token", err, map[string]interface{}{
			"user_id": user.ID,
		})
	}

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

// Logout blacklists both tokens of the session for the remainder of their
// lifetimes so neither can be replayed before expiry.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.revokeToken(ctx, accessToken); err != nil {
		logger.Error("Failed to blacklist access token on logout", err, nil)
		return err
	}
	if err := s.revokeToken(ctx, refreshToken); err != nil {
		logger.Error("Failed to blacklist refresh token on logout", err, nil)
		return err
	}
	return nil
}

// revokeToken blacklists a token until it would have expired anyway. Invalid
// or already expired tokens need no blacklisting and are skipped.
func (s *authService) revokeToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	return redis.BlacklistToken(ctx, token, remaining)
}
