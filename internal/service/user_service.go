package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	"github.com/spec-kit/auth-service/pkg/util"
)

// UserService creates and looks up user accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Create registers a new user with the default customer role. The duplicate
// pre-check is advisory; the unique constraint on users.email is the final
// arbiter for concurrent registrations.
func (s *UserService) Create(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, util.NewEmailConflict()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewStorageError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.NewEmailConflict()
		}
		return nil, util.NewStorageError(err)
	}
	return user, nil
}

// FindByEmail returns the user registered under email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user")
		}
		return nil, util.NewStorageError(err)
	}
	return user, nil
}

// FindByID returns the user with the given id.
func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user")
		}
		return nil, util.NewStorageError(err)
	}
	return user, nil
}
