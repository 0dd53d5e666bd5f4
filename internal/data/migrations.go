package data

import (
	"context"
	"database/sql"

	"github.com/gestaocx/acesso-api/internal/migrate"
)

// RunMigrations sets up the access-control schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
