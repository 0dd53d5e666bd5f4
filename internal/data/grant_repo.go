package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestaocx/acesso-api/internal/data/pgxutil"
	"github.com/gestaocx/acesso-api/internal/domain/model"
)

// GrantRepo provides database operations for permission edges.
// A composite uniqueness constraint on (usuario_id, papel_id, sistema_id)
// makes Grant idempotent regardless of caller behavior.
type GrantRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewGrantRepo creates a new GrantRepo with the real time provider.
func NewGrantRepo(db *sql.DB) *GrantRepo {
	return &GrantRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// Grant inserts a permission edge. Inserting an edge that already exists is a
// no-op; the returned bool reports whether a new row was created.
func (r *GrantRepo) Grant(ctx context.Context, usuarioID, papelID, sistemaID string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			INSERT INTO usuario_papeis (usuario_id, papel_id, sistema_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (usuario_id, papel_id, sistema_id) DO NOTHING`,
			usuarioID, papelID, sistemaID, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to grant permission edge: %w", err)
	}
	return rows > 0, nil
}

// Revoke deletes matching edges. Revoking a non-existent edge is a no-op.
func (r *GrantRepo) Revoke(ctx context.Context, usuarioID, papelID, sistemaID string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM usuario_papeis
			WHERE usuario_id = $1 AND papel_id = $2 AND sistema_id = $3`,
			usuarioID, papelID, sistemaID,
		)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to revoke permission edge: %w", err)
	}
	return rows > 0, nil
}

// ListForUser returns the user's (role, system) pairs with display names.
func (r *GrantRepo) ListForUser(ctx context.Context, usuarioID string) ([]*model.GrantDetail, error) {
	var rowsOut []model.GrantDetail
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT up.usuario_id, up.papel_id, p.nome AS papel_nome,
			       up.sistema_id, s.nome AS sistema_nome
			FROM usuario_papeis up
			JOIN papeis p ON p.id = up.papel_id
			JOIN sistemas s ON s.id = up.sistema_id
			WHERE up.usuario_id = $1
			ORDER BY s.nome, p.nome`,
			usuarioID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.GrantDetail])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list edges for user: %w", err)
	}

	res := make([]*model.GrantDetail, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ListSystemsForUser projects the distinct systems a user can reach out of the
// edge set, sorted by display name. A user with several roles in one system
// yields that system exactly once.
func (r *GrantRepo) ListSystemsForUser(ctx context.Context, usuarioID string) ([]*model.System, error) {
	var rowsOut []model.System
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT DISTINCT s.id, s.nome, s.sigla, s.url, s.ativo, s.created_at, s.updated_at
			FROM usuario_papeis up
			JOIN sistemas s ON s.id = up.sistema_id
			WHERE up.usuario_id = $1
			ORDER BY s.nome`,
			usuarioID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.System])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list systems for user: %w", err)
	}

	res := make([]*model.System, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ListAll returns every permission edge; backs the admin snapshot.
func (r *GrantRepo) ListAll(ctx context.Context) ([]*model.Grant, error) {
	var rowsOut []model.Grant
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, usuario_id, papel_id, sistema_id, created_at
			FROM usuario_papeis
			ORDER BY created_at`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Grant])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list permission edges: %w", err)
	}

	res := make([]*model.Grant, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
