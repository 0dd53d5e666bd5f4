package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestaocx/acesso-api/internal/data/pgxutil"
	"github.com/gestaocx/acesso-api/internal/domain/model"
)

// SystemRepo provides database operations for delegated systems.
type SystemRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSystemRepo creates a new SystemRepo with the real time provider.
func NewSystemRepo(db *sql.DB) *SystemRepo {
	return &SystemRepo{DB: db, timeProvider: RealTimeProvider{}}
}

const systemColumns = `id, nome, sigla, url, ativo, created_at, updated_at`

// Create inserts a new system.
func (r *SystemRepo) Create(ctx context.Context, req *model.UpsertSystemRequest) (*model.System, error) {
	if req == nil {
		return nil, errors.New("upsert system request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}

	var out model.System
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO sistemas (nome, sigla, url, ativo, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+systemColumns,
			req.Nome, req.Sigla, req.URL, ativo, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.System])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// Update updates a system by ID.
func (r *SystemRepo) Update(ctx context.Context, id string, req *model.UpsertSystemRequest) (*model.System, error) {
	if req == nil {
		return nil, errors.New("upsert system request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ativoExpr := "ativo"
	args := []any{req.Nome, req.Sigla, req.URL, r.timeProvider.Now().UTC(), id}
	if req.Ativo != nil {
		ativoExpr = "$6"
		args = append(args, *req.Ativo)
	}

	var out model.System
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE sistemas
			SET nome = $1, sigla = $2, url = $3, updated_at = $4, ativo = `+ativoExpr+`
			WHERE id = $5
			RETURNING `+systemColumns,
			args...,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.System])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// GetByID retrieves a system by ID.
func (r *SystemRepo) GetByID(ctx context.Context, id string) (*model.System, error) {
	var out model.System
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+systemColumns+` FROM sistemas WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.System])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSystemNotFound
		}
		return nil, fmt.Errorf("failed to get system by ID: %w", err)
	}
	return &out, nil
}

// List retrieves all systems sorted by display name.
func (r *SystemRepo) List(ctx context.Context) ([]*model.System, error) {
	var rowsOut []model.System
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+systemColumns+` FROM sistemas ORDER BY nome`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.System])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list systems: %w", err)
	}

	res := make([]*model.System, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ListSummaries retrieves all systems with a flag indicating whether any role
// is scoped to them. Systems without roles remain listable.
func (r *SystemRepo) ListSummaries(ctx context.Context) ([]*model.SystemSummary, error) {
	var rowsOut []model.SystemSummary
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT s.id, s.nome, s.sigla, s.url, s.ativo, s.created_at, s.updated_at,
			       EXISTS (SELECT 1 FROM papeis p WHERE p.sistema_id = s.id) AS has_roles
			FROM sistemas s
			ORDER BY s.nome`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SystemSummary])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list system summaries: %w", err)
	}

	res := make([]*model.SystemSummary, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a system; roles and edges cascade at the schema level.
func (r *SystemRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM sistemas WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete system: %w", err)
	}
	return rows > 0, nil
}

func (r *SystemRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrSystemNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrSystemSiglaTaken
	}
	return err
}
