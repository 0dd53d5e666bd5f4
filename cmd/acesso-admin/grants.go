package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	"github.com/gestaocx/acesso-api/internal/service"
)

type grantOptions struct {
	Email     string
	PapelID   string
	SistemaID string
}

type grantsListOptions struct {
	Email string
	All   bool
}

func runGrant(cmdCtx *commandContext, args []string) error {
	return toggleGrant(cmdCtx, "grant", model.GrantActionAdd, args)
}

func runRevoke(cmdCtx *commandContext, args []string) error {
	return toggleGrant(cmdCtx, "revoke", model.GrantActionRemove, args)
}

func toggleGrant(cmdCtx *commandContext, cmdName, action string, args []string) error {
	opts, err := parseGrantFlags(cmdName, args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users, access := buildAccessServices(db)

		user, findErr := users.GetByEmail(ctx, opts.Email)
		if findErr != nil {
			return findErr
		}

		changed, toggleErr := access.ToggleGrant(ctx, &model.GrantRequest{
			Action:    action,
			UsuarioID: user.ID,
			PapelID:   opts.PapelID,
			SistemaID: opts.SistemaID,
		})
		if toggleErr != nil {
			return toggleErr
		}

		if !changed {
			return writef(os.Stdout, "No change: %s already in the requested state\n", opts.Email)
		}
		cmdCtx.Logger.Info("grant toggled",
			"action", action,
			"usuario_id", user.ID,
			"papel_id", opts.PapelID,
			"sistema_id", opts.SistemaID,
		)
		return writef(os.Stdout, "%sed role %s on system %s for %s\n", cmdName, opts.PapelID, opts.SistemaID, opts.Email)
	})
}

func runGrants(cmdCtx *commandContext, args []string) error {
	opts, err := parseGrantsListFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users, access := buildAccessServices(db)

		if !opts.All {
			user, findErr := users.GetByEmail(ctx, opts.Email)
			if findErr != nil {
				return findErr
			}
			details, listErr := access.ListGrantsForUser(ctx, user.ID)
			if listErr != nil {
				return listErr
			}
			return renderGrantTable(map[string][]*model.GrantDetail{user.Email: details})
		}

		all, listErr := users.List(ctx, false)
		if listErr != nil {
			return listErr
		}
		byUser := make(map[string][]*model.GrantDetail, len(all))
		for _, u := range all {
			details, detailErr := access.ListGrantsForUser(ctx, u.ID)
			if detailErr != nil {
				return fmt.Errorf("list grants for %s: %w", u.Email, detailErr)
			}
			if len(details) > 0 {
				byUser[u.Email] = details
			}
		}
		return renderGrantTable(byUser)
	})
}

func buildAccessServices(db *sql.DB) (*service.UserService, *service.AccessService) {
	userRepo := data.NewUserRepo(db)
	users := service.NewUserService(service.UserServiceOptions{Users: userRepo})
	access := service.NewAccessService(service.AccessServiceOptions{
		Systems: data.NewSystemRepo(db),
		Roles:   data.NewRoleRepo(db),
		Grants:  data.NewGrantRepo(db),
		Users:   userRepo,
	})
	return users, access
}

func renderGrantTable(byUser map[string][]*model.GrantDetail) error {
	total := 0
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "Usuario\tSistema\tPapel"); err != nil {
		return err
	}
	for email, details := range byUser {
		for _, d := range details {
			total++
			if err := writef(tw, "%s\t%s\t%s\n", email, d.SistemaNome, d.PapelNome); err != nil {
				return err
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush grant table: %w", err)
	}
	if total == 0 {
		return writeln(os.Stdout, "(no grants found)")
	}
	return writef(os.Stdout, "\nTotal grants: %d\n", total)
}

func parseGrantFlags(cmdName string, args []string) (grantOptions, error) {
	fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts grantOptions
	fs.StringVar(&opts.Email, "email", "", "Email address of the user (required)")
	fs.StringVar(&opts.PapelID, "papel-id", "", "Role ID (required)")
	fs.StringVar(&opts.SistemaID, "sistema-id", "", "System ID (required)")

	if err := fs.Parse(args); err != nil {
		return grantOptions{}, err
	}
	if opts.Email == "" || opts.PapelID == "" || opts.SistemaID == "" {
		return grantOptions{}, errors.New("--email, --papel-id, and --sistema-id are required")
	}

	return opts, nil
}

func parseGrantsListFlags(args []string) (grantsListOptions, error) {
	fs := flag.NewFlagSet("grants", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts grantsListOptions
	fs.StringVar(&opts.Email, "email", "", "Email address of the user")
	fs.BoolVar(&opts.All, "all", false, "List grants for every user")

	if err := fs.Parse(args); err != nil {
		return grantsListOptions{}, err
	}
	if !opts.All && opts.Email == "" {
		return grantsListOptions{}, errors.New("either --email or --all is required")
	}

	return opts, nil
}
