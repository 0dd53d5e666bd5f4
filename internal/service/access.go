package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gestaocx/acesso-api/internal/core"
	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
)

// AccessServiceOptions groups dependencies for AccessService.
type AccessServiceOptions struct {
	Systems core.SystemRepository
	Roles   core.RoleRepository
	Grants  core.GrantRepository
	Users   core.UserRepository
}

// AccessService manages the permission graph: delegated systems, their
// roles, and the user-role-system edges.
type AccessService struct {
	systems core.SystemRepository
	roles   core.RoleRepository
	grants  core.GrantRepository
	users   core.UserRepository
}

// NewAccessService constructs a new AccessService.
func NewAccessService(opts AccessServiceOptions) *AccessService {
	return &AccessService{
		systems: opts.Systems,
		roles:   opts.Roles,
		grants:  opts.Grants,
		users:   opts.Users,
	}
}

// UpsertSystem creates or updates a delegated system.
func (s *AccessService) UpsertSystem(ctx context.Context, req *model.UpsertSystemRequest) (*model.System, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var (
		system *model.System
		err    error
	)
	if req.ID == nil || *req.ID == "" {
		system, err = s.systems.Create(ctx, req)
	} else {
		system, err = s.systems.Update(ctx, *req.ID, req)
	}
	if err != nil {
		switch {
		case errors.Is(err, data.ErrSystemNotFound):
			return nil, apperrors.NotFound("system not found")
		case errors.Is(err, data.ErrSystemSiglaTaken):
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, "sigla already in use")
		default:
			return nil, fmt.Errorf("system write: %w", err)
		}
	}
	return system, nil
}

// ListSystems returns all delegated systems ordered by name.
func (s *AccessService) ListSystems(ctx context.Context) ([]*model.System, error) {
	return s.systems.List(ctx)
}

// ListSystemSummaries returns systems annotated with whether any role
// references them.
func (s *AccessService) ListSystemSummaries(ctx context.Context) ([]*model.SystemSummary, error) {
	return s.systems.ListSummaries(ctx)
}

// DeleteSystem removes a system; roles scoped to it cascade away.
func (s *AccessService) DeleteSystem(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, apperrors.ValidationField("id", "system ID is required")
	}
	return s.systems.Delete(ctx, id)
}

// UpsertRole creates or updates a role.
func (s *AccessService) UpsertRole(ctx context.Context, req *model.UpsertRoleRequest) (*model.Role, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var (
		role *model.Role
		err  error
	)
	if req.ID == nil || *req.ID == "" {
		role, err = s.roles.Create(ctx, req)
	} else {
		role, err = s.roles.Update(ctx, *req.ID, req)
	}
	if err != nil {
		if errors.Is(err, data.ErrRoleNotFound) {
			return nil, apperrors.NotFound("role not found")
		}
		return nil, fmt.Errorf("role write: %w", err)
	}
	return role, nil
}

// DeleteRole removes a role and its grants.
func (s *AccessService) DeleteRole(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, apperrors.ValidationField("id", "role ID is required")
	}
	return s.roles.Delete(ctx, id)
}

// ToggleGrant applies a single add/remove on a permission edge. Adding an
// edge that already exists and removing one that does not are both no-ops;
// the returned bool reports whether anything changed.
func (s *AccessService) ToggleGrant(ctx context.Context, req *model.GrantRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, apperrors.Validation(err.Error())
	}

	role, err := s.roles.GetByID(ctx, req.PapelID)
	if err != nil {
		if errors.Is(err, data.ErrRoleNotFound) {
			return false, apperrors.NotFound("role not found")
		}
		return false, fmt.Errorf("load role: %w", err)
	}
	// Roles scoped to a system only apply within that system.
	if role.SistemaID != nil && *role.SistemaID != req.SistemaID {
		return false, apperrors.ValidationField("papel_id", "role does not belong to the system")
	}

	switch req.Action {
	case model.GrantActionAdd:
		changed, grantErr := s.grants.Grant(ctx, req.UsuarioID, req.PapelID, req.SistemaID)
		if grantErr != nil {
			return false, mapGrantWriteErr(grantErr)
		}
		return changed, nil
	case model.GrantActionRemove:
		changed, revokeErr := s.grants.Revoke(ctx, req.UsuarioID, req.PapelID, req.SistemaID)
		if revokeErr != nil {
			return false, mapGrantWriteErr(revokeErr)
		}
		return changed, nil
	default:
		return false, apperrors.ValidationField("action", "action must be add or remove")
	}
}

// ListGrantsForUser returns the user's permission edges with role and
// system names joined in.
func (s *AccessService) ListGrantsForUser(ctx context.Context, usuarioID string) ([]*model.GrantDetail, error) {
	if usuarioID == "" {
		return nil, apperrors.ValidationField("usuario_id", "user ID is required")
	}
	return s.grants.ListForUser(ctx, usuarioID)
}

// ListSystemsForUser returns the distinct systems the user holds any role
// in, ordered by name. Callers landing a freshly signed-in user can
// short-circuit to the single system when exactly one comes back.
func (s *AccessService) ListSystemsForUser(ctx context.Context, usuarioID string) ([]*model.System, error) {
	if usuarioID == "" {
		return nil, apperrors.ValidationField("usuario_id", "user ID is required")
	}
	return s.grants.ListSystemsForUser(ctx, usuarioID)
}

// SnapshotError reports which parts of the access snapshot failed to load.
type SnapshotError struct {
	Details []string
}

func (e *SnapshotError) Error() string {
	return "load access snapshot: " + strings.Join(e.Details, "; ")
}

// Snapshot loads the full administrative view of the permission graph. The
// four collections load in parallel; any failure reports every failed part.
func (s *AccessService) Snapshot(ctx context.Context) (*model.AccessSnapshot, error) {
	snap := &model.AccessSnapshot{}
	failures := make([]string, 4)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	g.Go(func() error {
		users, err := s.users.List(gctx, false)
		if err != nil {
			failures[0] = fmt.Sprintf("users: %v", err)
			return err
		}
		snap.Users = users
		return nil
	})
	g.Go(func() error {
		systems, err := s.systems.List(gctx)
		if err != nil {
			failures[1] = fmt.Sprintf("systems: %v", err)
			return err
		}
		snap.Systems = systems
		return nil
	})
	g.Go(func() error {
		roles, err := s.roles.List(gctx)
		if err != nil {
			failures[2] = fmt.Sprintf("roles: %v", err)
			return err
		}
		snap.Roles = roles
		return nil
	})
	g.Go(func() error {
		userRoles, err := s.grants.ListAll(gctx)
		if err != nil {
			failures[3] = fmt.Sprintf("userRoles: %v", err)
			return err
		}
		snap.UserRoles = userRoles
		return nil
	})

	if err := g.Wait(); err != nil {
		details := make([]string, 0, 4)
		for _, f := range failures {
			if f != "" {
				details = append(details, f)
			}
		}
		return nil, &SnapshotError{Details: details}
	}
	return snap, nil
}

func mapGrantWriteErr(err error) error {
	mapped := apperrors.MapDBError(err)
	if apperrors.GetCode(mapped) == apperrors.ErrCodeForeignKey {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "user, role, or system does not exist")
	}
	return mapped
}
