package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/coderTechJordan/UserService-Backend/internal/domain"
	"github.com/coderTechJordan/UserService-Backend/internal/identity"
	"github.com/coderTechJordan/UserService-Backend/internal/repository"
)

// ErrValidation indicates missing or empty required input. The dispatcher
// maps it to a client error, unlike store failures which map to server
// errors.
var ErrValidation = errors.New("validation failed")

// UserService owns the business rules for the user collection. Ids are
// assigned at create time and immutable thereafter.
type UserService interface {
	CreateUser(ctx context.Context, candidate *domain.User) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// GetUserByID returns (nil, nil) for an unknown id; the boundary layer
	// decides how absence is represented on the wire.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, replacement *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserRepository
	ids   identity.Generator
}

func NewUserService(users repository.UserRepository, ids identity.Generator) UserService {
	return &userService{
		users: users,
		ids:   ids,
	}
}

func (s *userService) CreateUser(ctx context.Context, candidate *domain.User) (*domain.User, error) {
	if candidate == nil {
		return nil, fmt.Errorf("%w: user body is required", ErrValidation)
	}
	if strings.TrimSpace(candidate.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(candidate.Password) == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(candidate.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           s.ids.NewID(),
		FirstName:    candidate.FirstName,
		LastName:     candidate.LastName,
		Username:     candidate.Username,
		PasswordHash: string(hash),
		Email:        candidate.Email,
		CreatedAt:    s.ids.Now(),
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// UpdateUser replaces the stored record wholesale. The path-supplied id
// always wins over any id in the body, createdAt is carried over from the
// existing record, and the stored password hash survives unless the
// replacement brings a new password.
func (s *userService) UpdateUser(ctx context.Context, id string, replacement *domain.User) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if replacement == nil {
		return nil, fmt.Errorf("%w: user body is required", ErrValidation)
	}

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:        id,
		FirstName: replacement.FirstName,
		LastName:  replacement.LastName,
		Username:  replacement.Username,
		Email:     replacement.Email,
	}
	if existing != nil {
		user.CreatedAt = existing.CreatedAt
		user.PasswordHash = existing.PasswordHash
	}
	if user.CreatedAt == "" {
		user.CreatedAt = s.ids.Now()
	}
	if strings.TrimSpace(replacement.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(replacement.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return s.users.Remove(ctx, id)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
