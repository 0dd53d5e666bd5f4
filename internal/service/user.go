package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestaocx/acesso-api/internal/core"
	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/data/cryptoutil"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users core.UserRepository
}

// UserService manages credential-store accounts. Passwords are only ever
// accepted in plaintext and hashed here; stored hashes never leave the
// service layer.
type UserService struct {
	users core.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{users: opts.Users}
}

// Upsert creates the user when the request has no ID, otherwise updates the
// identified user. A non-empty Password is hashed and stored.
func (s *UserService) Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var senhaHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := cryptoutil.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		senhaHash = &hash
	}

	var (
		user *model.User
		err  error
	)
	if req.ID == nil || *req.ID == "" {
		user, err = s.users.Create(ctx, req, senhaHash)
	} else {
		user, err = s.users.Update(ctx, *req.ID, req, senhaHash)
	}
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	return user, nil
}

// Deactivate marks the user inactive without removing rows or grants.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "user ID is required")
	}
	if err := s.users.Deactivate(ctx, id); err != nil {
		return mapUserWriteErr(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	return user, nil
}

// List returns users, optionally restricted to active accounts.
func (s *UserService) List(ctx context.Context, activeOnly bool) ([]*model.User, error) {
	return s.users.List(ctx, activeOnly)
}

// Delete removes a user; grants cascade away with the row.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, apperrors.ValidationField("id", "user ID is required")
	}
	return s.users.Delete(ctx, id)
}

func mapUserWriteErr(err error) error {
	switch {
	case errors.Is(err, data.ErrUserNotFound):
		return apperrors.NotFound("user not found")
	case errors.Is(err, data.ErrUserEmailTaken):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, "email already registered")
	default:
		return fmt.Errorf("user write: %w", err)
	}
}

// GetByEmail retrieves a user by email (case-insensitive).
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	return user, nil
}
