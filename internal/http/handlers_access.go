package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
	"github.com/gestaocx/acesso-api/internal/service"
)

// AccessServiceInterface covers permission-graph operations.
type AccessServiceInterface interface {
	Snapshot(ctx context.Context) (*model.AccessSnapshot, error)
	UpsertSystem(ctx context.Context, req *model.UpsertSystemRequest) (*model.System, error)
	ListSystemSummaries(ctx context.Context) ([]*model.SystemSummary, error)
	DeleteSystem(ctx context.Context, id string) (bool, error)
	UpsertRole(ctx context.Context, req *model.UpsertRoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, id string) (bool, error)
	ToggleGrant(ctx context.Context, req *model.GrantRequest) (bool, error)
	ListGrantsForUser(ctx context.Context, usuarioID string) ([]*model.GrantDetail, error)
	ListSystemsForUser(ctx context.Context, usuarioID string) ([]*model.System, error)
}

// UsersServiceInterface covers credential-store account management.
type UsersServiceInterface interface {
	Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error)
	Deactivate(ctx context.Context, id string) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, activeOnly bool) ([]*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AccessHandlers provides HTTP handlers for the access-administration API.
type AccessHandlers struct {
	Svc    AccessServiceInterface
	Users  UsersServiceInterface
	Logger *slog.Logger
}

// Data returns the full administrative snapshot of the permission graph.
// GET /api/access/data.
func (h *AccessHandlers) Data(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Snapshot(r.Context())
	if err != nil {
		var snapErr *service.SnapshotError
		if errors.As(err, &snapErr) {
			WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "snapshot_failed",
				"details": snapErr.Details,
			})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

// UpsertUser creates or updates a credential-store account.
// POST /api/access/users.
func (h *AccessHandlers) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	created := req.ID == nil || *req.ID == ""
	user, err := h.Users.Upsert(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, user)
}

// DeactivateUser marks an account inactive, keeping rows and grants.
// POST /api/access/users/{id}/deactivate.
func (h *AccessHandlers) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// DeleteUser removes an account and, by cascade, its grants.
// DELETE /api/access/users/{id}.
func (h *AccessHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Users.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !ok {
		WriteAppError(w, apperrors.NotFound("user not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertSystem creates or updates a delegated system.
// POST /api/access/systems.
func (h *AccessHandlers) UpsertSystem(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertSystemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	created := req.ID == nil || *req.ID == ""
	system, err := h.Svc.UpsertSystem(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, system)
}

// ListSystems returns all systems annotated with role usage.
// GET /api/access/systems.
func (h *AccessHandlers) ListSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := h.Svc.ListSystemSummaries(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"systems": systems})
}

// DeleteSystem removes a system and its scoped roles.
// DELETE /api/access/systems/{id}.
func (h *AccessHandlers) DeleteSystem(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Svc.DeleteSystem(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !ok {
		WriteAppError(w, apperrors.NotFound("system not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MySystems returns the systems the signed-in user holds any role in. A
// client that gets exactly one back can land the user straight on it.
// GET /api/access/systems/mine.
func (h *AccessHandlers) MySystems(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), session.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Provider account with no row-store record holds nothing.
			WriteJSON(w, http.StatusOK, map[string]any{"systems": []*model.System{}})
			return
		}
		WriteAppError(w, err)
		return
	}

	systems, err := h.Svc.ListSystemsForUser(r.Context(), user.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"systems": systems})
}

// UpsertRole creates or updates a role.
// POST /api/access/roles.
func (h *AccessHandlers) UpsertRole(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	created := req.ID == nil || *req.ID == ""
	role, err := h.Svc.UpsertRole(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, role)
}

// DeleteRole removes a role and its grants.
// DELETE /api/access/roles/{id}.
func (h *AccessHandlers) DeleteRole(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Svc.DeleteRole(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !ok {
		WriteAppError(w, apperrors.NotFound("role not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleGrant adds or removes a single permission edge. Re-adding an
// existing edge or removing a missing one succeeds without change.
// POST /api/access/user-roles.
func (h *AccessHandlers) ToggleGrant(w http.ResponseWriter, r *http.Request) {
	var req model.GrantRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	changed, err := h.Svc.ToggleGrant(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"changed": changed})
}

// UserGrants returns a user's permission edges with names joined in.
// GET /api/access/user-roles?usuario_id=<id>.
func (h *AccessHandlers) UserGrants(w http.ResponseWriter, r *http.Request) {
	usuarioID := r.URL.Query().Get("usuario_id")
	grants, err := h.Svc.ListGrantsForUser(r.Context(), usuarioID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"userRoles": grants})
}
