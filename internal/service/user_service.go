package service

import (
	"context"
	"errors"
	"strings"

	"kanban-board/internal/domain"
	"kanban-board/internal/repository"
)

var (
	// ErrUserAlreadyExists is returned when signing up with a taken username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnknownUsername is returned when logging in with an unregistered username.
	ErrUnknownUsername = errors.New("unknown username")
	// ErrWrongPassword is returned when the password does not match the stored digest.
	ErrWrongPassword = errors.New("wrong password")
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	digest, err := HashPassword(password, username)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: username,
		Password: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUsername
		}
		return nil, err
	}

	if !VerifyPassword(user.Password, password, username) {
		return nil, ErrWrongPassword
	}

	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
