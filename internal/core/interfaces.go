// Package core defines the repository interfaces services depend on.
// Concrete implementations live in internal/data; mocks in internal/mocks.
package core

import (
	"context"

	"github.com/gestaocx/acesso-api/internal/domain/model"
)

// UserRepository is the credential-store contract.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, req *model.UpsertUserRequest, senhaHash *string) (*model.User, error)
	Update(ctx context.Context, id string, req *model.UpsertUserRequest, senhaHash *string) (*model.User, error)
	SetPasswordHash(ctx context.Context, id string, hash *string) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SystemRepository manages delegated systems.
type SystemRepository interface {
	Create(ctx context.Context, req *model.UpsertSystemRequest) (*model.System, error)
	Update(ctx context.Context, id string, req *model.UpsertSystemRequest) (*model.System, error)
	GetByID(ctx context.Context, id string) (*model.System, error)
	List(ctx context.Context) ([]*model.System, error)
	ListSummaries(ctx context.Context) ([]*model.SystemSummary, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RoleRepository manages roles (papéis).
type RoleRepository interface {
	Create(ctx context.Context, req *model.UpsertRoleRequest) (*model.Role, error)
	Update(ctx context.Context, id string, req *model.UpsertRoleRequest) (*model.Role, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	List(ctx context.Context) ([]*model.Role, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// GrantRepository manages permission edges.
type GrantRepository interface {
	Grant(ctx context.Context, usuarioID, papelID, sistemaID string) (bool, error)
	Revoke(ctx context.Context, usuarioID, papelID, sistemaID string) (bool, error)
	ListForUser(ctx context.Context, usuarioID string) ([]*model.GrantDetail, error)
	ListSystemsForUser(ctx context.Context, usuarioID string) ([]*model.System, error)
	ListAll(ctx context.Context) ([]*model.Grant, error)
}
