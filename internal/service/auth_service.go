package service

import (
	"context"
	"errors"

	"go-parts-inventory/internal/logger"
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"
	"go-parts-inventory/pkg/jwt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	// Authenticate resolves a bearer token to the acting user.
	Authenticate(ctx context.Context, token string) (model.Actor, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	issuer   *jwt.Issuer
}

func NewAuthService(userRepo repository.UserRepository, issuer *jwt.Issuer) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(user.ID, user.Email, user.Building, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastSeen(ctx, user.ID); err != nil {
		logger.WarnCtx(ctx, "failed to update last seen", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Authenticate checks the token and that its user is still active. Building
// and role come from the stored user so changes apply without a new login.
func (s *authService) Authenticate(ctx context.Context, token string) (model.Actor, error) {
	claims, err := s.issuer.ValidateToken(token)
	if err != nil {
		return model.Actor{}, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Actor{}, ErrUserNotFound
		}
		return model.Actor{}, err
	}
	if !user.IsActive {
		return model.Actor{}, ErrUserInactive
	}
	return user.Actor(), nil
}
