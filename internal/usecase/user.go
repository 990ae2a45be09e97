package usecase

import (
	"context"
	"fmt"
	"strings"

	"libraryapi/internal/auth"
	"libraryapi/internal/entity"
)

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates a user with a hashed credential. A duplicate email
// surfaces as ErrConflict from the repository's unique constraint.
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (entity.User, error) {
	if name == "" || email == "" || password == "" {
		return entity.User{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return entity.User{}, fmt.Errorf("%w: malformed email", ErrValidation)
	}
	if role == "" {
		role = entity.RoleReader
	}
	if !entity.ValidRole(role) {
		return entity.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return entity.User{}, err
	}

	user := &entity.User{Name: name, Email: email, Password: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return entity.User{}, err
	}
	return *user, nil
}

// Authenticate checks the credential and returns the user on success.
// A bad email and a bad password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (entity.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return entity.User{}, err
	}
	if !auth.VerifyPassword(user.Password, password) {
		return entity.User{}, ErrNotFound
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (entity.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id int64, updates map[string]any) (entity.User, error) {
	if v, ok := updates["role"]; ok {
		role, _ := v.(string)
		if !entity.ValidRole(role) {
			return entity.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		}
	}
	return s.users.Update(ctx, id, updates)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
