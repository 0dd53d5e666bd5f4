package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestaocx/acesso-api/internal/data/pgxutil"
	"github.com/gestaocx/acesso-api/internal/domain/model"
)

// RoleRepo provides database operations for roles (papéis).
type RoleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRoleRepo creates a new RoleRepo with the real time provider.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db, timeProvider: RealTimeProvider{}}
}

const roleColumns = `id, nome, sistema_id, created_at, updated_at`

// Create inserts a new role.
func (r *RoleRepo) Create(ctx context.Context, req *model.UpsertRoleRequest) (*model.Role, error) {
	if req == nil {
		return nil, errors.New("upsert role request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Role
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO papeis (nome, sistema_id, created_at)
			VALUES ($1, $2, $3)
			RETURNING `+roleColumns,
			req.Nome, req.SistemaID, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update renames or rescopes an existing role.
func (r *RoleRepo) Update(ctx context.Context, id string, req *model.UpsertRoleRequest) (*model.Role, error) {
	if req == nil {
		return nil, errors.New("upsert role request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Role
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE papeis
			SET nome = $1, sistema_id = COALESCE($2, sistema_id), updated_at = $3
			WHERE id = $4
			RETURNING `+roleColumns,
			req.Nome, req.SistemaID, r.timeProvider.Now().UTC(), id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var out model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+roleColumns+` FROM papeis WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role by ID: %w", err)
	}
	return &out, nil
}

// List retrieves all roles ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]*model.Role, error) {
	var rowsOut []model.Role
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+roleColumns+` FROM papeis ORDER BY nome`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Role])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	res := make([]*model.Role, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a role; edges referencing it cascade at the schema level.
func (r *RoleRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM papeis WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete role: %w", err)
	}
	return rows > 0, nil
}
