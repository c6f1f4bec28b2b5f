package services

import (
	"context"
	"errors"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/auth"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/logger"
)

// AuthService handles login and token issuance
type AuthService struct {
	users UserStore
	jwt   *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwt *auth.JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login verifies the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusEnable {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		User: dto.AuthUser{
			ID:   user.ID,
			Name: user.Name,
			Role: string(user.Role),
		},
	}, nil
}

// GetProfile returns the account behind an authenticated user id
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, err
	}
	return user, nil
}
