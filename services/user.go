package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"
)

// UserService handles account registration and authentication.
type UserService struct {
	users     repository.UserRepository
	jwtSecret []byte
	logger    *slog.Logger
}

func NewUserService(users repository.UserRepository, jwtSecret []byte, logger *slog.Logger) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret, logger: logger}
}

// Register creates a new account with the default user role.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		// Unique email index catches concurrent registrations too.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login authenticates a user and returns a signed token. Unknown
// emails and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.Unauthorized("invalid email or password")
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return "", nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

// GetProfile returns the user's account details.
func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID.Hex())
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
