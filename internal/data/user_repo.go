// Package data implements pgx-backed repositories over the access-control schema.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestaocx/acesso-api/internal/data/pgxutil"
	"github.com/gestaocx/acesso-api/internal/domain/model"
)

// UserRepo provides database operations for credential-store users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with the real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = `id, email, nome_completo, senha_hash, ativo, created_at, updated_at`

// FindByEmail looks a user up case-insensitively.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE lower(email) = lower($1)`,
		"failed to get user by email",
		strings.TrimSpace(email),
	)
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE id = $1`,
		"failed to get user by ID",
		id,
	)
}

// Create inserts a new user. The email is lower-cased before storage.
func (r *UserRepo) Create(ctx context.Context, req *model.UpsertUserRequest, senhaHash *string) (*model.User, error) {
	if req == nil {
		return nil, errors.New("upsert user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO usuarios (email, nome_completo, senha_hash, ativo, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.NomeCompleto,
			senhaHash,
			ativo,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// Update updates user fields by ID. A nil senhaHash leaves the stored hash
// untouched; use SetPasswordHash to clear it.
func (r *UserRepo) Update(ctx context.Context, id string, req *model.UpsertUserRequest, senhaHash *string) (*model.User, error) {
	if req == nil {
		return nil, errors.New("upsert user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := []string{"email = $1", "updated_at = $2"}
	args := []any{strings.ToLower(strings.TrimSpace(req.Email)), r.timeProvider.Now().UTC()}
	next := func() int { return len(args) + 1 }

	if req.NomeCompleto != nil {
		setParts = append(setParts, fmt.Sprintf("nome_completo = $%d", next()))
		args = append(args, *req.NomeCompleto)
	}
	if req.Ativo != nil {
		setParts = append(setParts, fmt.Sprintf("ativo = $%d", next()))
		args = append(args, *req.Ativo)
	}
	if senhaHash != nil {
		setParts = append(setParts, fmt.Sprintf("senha_hash = $%d", next()))
		args = append(args, *senhaHash)
	}
	args = append(args, id)
	query := "UPDATE usuarios SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + userColumns

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// SetPasswordHash stores a new credential hash, or clears it when hash is nil
// (forcing magic-link-only access).
func (r *UserRepo) SetPasswordHash(ctx context.Context, id string, hash *string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE usuarios SET senha_hash = $1, updated_at = $2 WHERE id = $3`,
			hash, r.timeProvider.Now().UTC(), id,
		)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deactivate clears the active flag; the record is kept.
func (r *UserRepo) Deactivate(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE usuarios SET ativo = false, updated_at = $1 WHERE id = $2`,
			r.timeProvider.Now().UTC(), id,
		)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List retrieves users ordered by email. When activeOnly is set, inactive
// accounts are filtered out.
func (r *UserRepo) List(ctx context.Context, activeOnly bool) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios ORDER BY email`
	if activeOnly {
		query = `SELECT ` + userColumns + ` FROM usuarios WHERE ativo ORDER BY email`
	}

	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a user. Permission edges cascade at the schema level.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

func (r *UserRepo) getByQuery(ctx context.Context, q, errMsg string, args ...any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

func (r *UserRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUserEmailTaken
	}
	return err
}
