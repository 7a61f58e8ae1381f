package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/pkg/auth"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so a caller cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserExists reports a registration with a taken username.
	ErrUserExists = errors.New("user already exists")
)

// UserStore is the persistence contract the service needs.
// *repositories.UserRepository implements it.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// RegisterInput is the validated body for registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

// LoginInput is the validated body for login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// AuthService issues JWTs against bcrypt-hashed credentials.
type AuthService struct {
	users UserStore
	log   *slog.Logger
}

func NewAuthService(users UserStore, log *slog.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Register creates a user with a bcrypt password hash and returns a signed
// token. Unknown roles degrade to the regular user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	_, err := s.users.FindByUsername(ctx, in.Username)
	if err == nil {
		return AuthResponse{}, ErrUserExists
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	role := in.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}

	user := models.User{Username: in.Username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, &user); err != nil {
		return AuthResponse{}, err
	}

	s.log.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return s.respond(user)
}

// Login verifies the password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResponse{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return AuthResponse{}, ErrInvalidCredentials
	}

	s.log.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return s.respond(user)
}

func (s *AuthService) respond(user models.User) (AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}, nil
}
