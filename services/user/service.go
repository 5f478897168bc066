// File: services/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "tutorhive/database/repository/user"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/models"
	"tutorhive/utils"
)

const tokenTTL = 72 * time.Hour

var (
	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RegisterRequest is the typed registration input.
type RegisterRequest struct {
	Email      string
	Password   string
	Name       string
	Role       string
	TimeZone   string
	HourlyRate float64
}

// UserService covers the minimal account surface the booking core needs:
// registration (students get a zero-balance wallet), login, and lookups.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (token string, user *models.User, err error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Wallets walletRepo.WalletRepository
	Logger  *zap.Logger
}

func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	switch req.Role {
	case models.RoleStudent, models.RoleTutor, models.RoleStaff:
	default:
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		TimeZone:     req.TimeZone,
		HourlyRate:   req.HourlyRate,
	}
	if err := s.Repo.Insert(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Students get their wallet at registration time, balance zero.
	if user.Role == models.RoleStudent {
		if _, err := s.Wallets.Create(ctx, user.ID); err != nil {
			s.Logger.Error("wallet creation failed",
				zap.String("studentId", user.ID), zap.Error(err))
		}
	}

	s.Logger.Info("user registered",
		zap.String("userId", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Repo.GetByID(ctx, userID)
}
