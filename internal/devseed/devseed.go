// Package devseed loads a small, stable development dataset: a handful of
// back-office users, two delegated systems with roles, and their grants.
// Seeding is idempotent so it can run after every db-reset.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
	"github.com/gestaocx/acesso-api/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB     *sql.DB
	users  *service.UserService
	access *service.AccessService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	userRepo := data.NewUserRepo(db)
	users := service.NewUserService(service.UserServiceOptions{Users: userRepo})
	access := service.NewAccessService(service.AccessServiceOptions{
		Systems: data.NewSystemRepo(db),
		Roles:   data.NewRoleRepo(db),
		Grants:  data.NewGrantRepo(db),
		Users:   userRepo,
	})
	return Services{DB: db, users: users, access: access}
}

type seedUser struct {
	Email    string
	Nome     string
	Password string
}

type seedSystem struct {
	Nome  string
	Sigla string
	URL   string
	Roles []string
}

type seedGrant struct {
	Email string
	Sigla string
	Papel string
}

func seedUsers() []seedUser {
	return []seedUser{
		{Email: "admin@acesso.dev", Nome: "Administrador Local", Password: "admin-dev-password"},
		{Email: "ana.souza@acesso.dev", Nome: "Ana Souza", Password: "ana-dev-password"},
		{Email: "bruno.lima@acesso.dev", Nome: "Bruno Lima", Password: "bruno-dev-password"},
	}
}

func seedSystems() []seedSystem {
	return []seedSystem{
		{
			Nome:  "Gestão de Contratos",
			Sigla: "GCON",
			URL:   "http://localhost:4000/contratos",
			Roles: []string{"Gestor", "Fiscal", "Leitor"},
		},
		{
			Nome:  "Gestão de Patrimônio",
			Sigla: "GPAT",
			URL:   "http://localhost:4000/patrimonio",
			Roles: []string{"Gestor", "Leitor"},
		},
	}
}

func seedGrants() []seedGrant {
	return []seedGrant{
		{Email: "admin@acesso.dev", Sigla: "GCON", Papel: "Gestor"},
		{Email: "admin@acesso.dev", Sigla: "GPAT", Papel: "Gestor"},
		{Email: "ana.souza@acesso.dev", Sigla: "GCON", Papel: "Fiscal"},
		{Email: "bruno.lima@acesso.dev", Sigla: "GPAT", Papel: "Leitor"},
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	userIDs, err := ensureUsers(ctx, svcs, logger)
	if err != nil {
		return err
	}

	roleIDs, systemIDs, err := ensureSystems(ctx, svcs, logger)
	if err != nil {
		return err
	}

	if grantErr := ensureGrants(ctx, svcs, logger, userIDs, systemIDs, roleIDs); grantErr != nil {
		return grantErr
	}

	logger.InfoContext(ctx, "development seed complete",
		"users", len(userIDs),
		"systems", len(systemIDs),
	)
	return nil
}

// ensureUsers upserts the fixed dev accounts and returns their IDs by email.
func ensureUsers(ctx context.Context, svcs Services, logger *slog.Logger) (map[string]string, error) {
	ids := make(map[string]string, len(seedUsers()))
	for _, su := range seedUsers() {
		su := su
		req := &model.UpsertUserRequest{
			Email:        su.Email,
			NomeCompleto: &su.Nome,
			Password:     &su.Password,
		}
		if existing, findErr := svcs.users.GetByEmail(ctx, su.Email); findErr == nil {
			req.ID = &existing.ID
		} else if !apperrors.IsNotFound(findErr) {
			return nil, fmt.Errorf("lookup seed user %s: %w", su.Email, findErr)
		}

		user, upsertErr := svcs.users.Upsert(ctx, req)
		if upsertErr != nil {
			return nil, fmt.Errorf("seed user %s: %w", su.Email, upsertErr)
		}
		ids[user.Email] = user.ID
		logger.DebugContext(ctx, "seeded user", "email", user.Email, "id", user.ID)
	}
	return ids, nil
}

// ensureSystems upserts the dev systems and their roles. Returns role IDs
// keyed by "SIGLA/Papel" and system IDs keyed by sigla.
func ensureSystems(
	ctx context.Context,
	svcs Services,
	logger *slog.Logger,
) (map[string]string, map[string]string, error) {
	existing, err := svcs.access.ListSystems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list systems: %w", err)
	}
	bySigla := make(map[string]*model.System, len(existing))
	for _, sys := range existing {
		bySigla[strings.ToUpper(sys.Sigla)] = sys
	}

	roles, err := listRolesByName(ctx, svcs)
	if err != nil {
		return nil, nil, err
	}

	roleIDs := make(map[string]string)
	systemIDs := make(map[string]string)
	for _, ss := range seedSystems() {
		ss := ss
		req := &model.UpsertSystemRequest{Nome: ss.Nome, Sigla: ss.Sigla, URL: &ss.URL}
		if prev, ok := bySigla[ss.Sigla]; ok {
			req.ID = &prev.ID
		}
		sys, upsertErr := svcs.access.UpsertSystem(ctx, req)
		if upsertErr != nil {
			return nil, nil, fmt.Errorf("seed system %s: %w", ss.Sigla, upsertErr)
		}
		systemIDs[ss.Sigla] = sys.ID
		logger.DebugContext(ctx, "seeded system", "sigla", ss.Sigla, "id", sys.ID)

		for _, roleName := range ss.Roles {
			key := ss.Sigla + "/" + roleName
			roleReq := &model.UpsertRoleRequest{Nome: roleName, SistemaID: &sys.ID}
			if prevID, ok := roles[key]; ok {
				roleReq.ID = &prevID
			}
			role, roleErr := svcs.access.UpsertRole(ctx, roleReq)
			if roleErr != nil {
				return nil, nil, fmt.Errorf("seed role %s: %w", key, roleErr)
			}
			roleIDs[key] = role.ID
		}
	}
	return roleIDs, systemIDs, nil
}

// listRolesByName indexes existing roles by "SIGLA/Papel" so reseeding
// updates rows instead of duplicating them.
func listRolesByName(ctx context.Context, svcs Services) (map[string]string, error) {
	snapshot, err := svcs.access.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot for seed: %w", err)
	}

	siglaByID := make(map[string]string, len(snapshot.Systems))
	for _, sys := range snapshot.Systems {
		siglaByID[sys.ID] = strings.ToUpper(sys.Sigla)
	}

	out := make(map[string]string, len(snapshot.Roles))
	for _, role := range snapshot.Roles {
		if role.SistemaID == nil {
			continue
		}
		if sigla, ok := siglaByID[*role.SistemaID]; ok {
			out[sigla+"/"+role.Nome] = role.ID
		}
	}
	return out, nil
}

func ensureGrants(
	ctx context.Context,
	svcs Services,
	logger *slog.Logger,
	userIDs, systemIDs, roleIDs map[string]string,
) error {
	for _, sg := range seedGrants() {
		usuarioID, ok := userIDs[sg.Email]
		if !ok {
			return fmt.Errorf("seed grant references unknown user %q", sg.Email)
		}
		sistemaID, ok := systemIDs[sg.Sigla]
		if !ok {
			return fmt.Errorf("seed grant references unknown system %q", sg.Sigla)
		}
		papelID, ok := roleIDs[sg.Sigla+"/"+sg.Papel]
		if !ok {
			return fmt.Errorf("seed grant references unknown role %q", sg.Sigla+"/"+sg.Papel)
		}

		changed, err := svcs.access.ToggleGrant(ctx, &model.GrantRequest{
			Action:    model.GrantActionAdd,
			UsuarioID: usuarioID,
			PapelID:   papelID,
			SistemaID: sistemaID,
		})
		if err != nil {
			return fmt.Errorf("seed grant %s %s/%s: %w", sg.Email, sg.Sigla, sg.Papel, err)
		}
		if changed {
			logger.DebugContext(ctx, "seeded grant", "email", sg.Email, "sigla", sg.Sigla, "papel", sg.Papel)
		}
	}
	return nil
}
