package services

import (
	"context"
	"errors"
	"strings"

	"github.com/recipebox/recipe-api/internal/auth"
	"github.com/recipebox/recipe-api/internal/models"
	repo "github.com/recipebox/recipe-api/internal/repository"
)

type UserService struct {
	r repo.Users
}

func NewUserService(r repo.Users) *UserService { return &UserService{r: r} }

func (s *UserService) Create(ctx context.Context, email, password, name string) (models.User, error) {
	return s.create(ctx, email, password, name, false, false)
}

// CreateSuperuser sets both the staff and superuser flags. It is not
// reachable over HTTP; bootstrap tooling calls it directly.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (models.User, error) {
	return s.create(ctx, email, password, "", true, true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, isStaff, isSuperuser bool) (models.User, error) {
	u := models.User{
		Email: models.NormalizeEmail(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if len(password) < models.MinPasswordLen {
		return models.User{}, models.Invalid("password too short")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.r.Create(ctx, u.Email, hash, u.Name, isStaff, isSuperuser)
}

// Authenticate resolves email+password to a user. Every failure mode maps
// to the same ErrInvalidCredentials; callers never learn which part was
// wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, models.ErrInvalidCredentials
	}
	u, err := s.r.GetByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return models.User{}, models.ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.r.GetByID(ctx, id)
}

// UpdateProfile applies partial profile changes; nil fields are untouched.
// A new password is re-hashed before storage.
func (s *UserService) UpdateProfile(ctx context.Context, id string, name, password *string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if name != nil {
		u.Name = strings.TrimSpace(*name)
	}
	if password != nil {
		if len(*password) < models.MinPasswordLen {
			return models.User{}, models.Invalid("password too short")
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = hash
	}
	if err := s.r.Update(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
