package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gestaocx/acesso-api/internal/bootstrap"
	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
	"github.com/gestaocx/acesso-api/internal/service"
)

const defaultCommandTimeout = 2 * time.Minute

type userCreateOptions struct {
	Email    string
	Nome     string
	Password string
	Inactive bool
}

type userDeactivateOptions struct {
	Email string
	Yes   bool
}

type inviteOptions struct {
	Email      string
	RedirectTo string
}

func runUserCreate(cmdCtx *commandContext, args []string) error {
	opts, err := parseUserCreateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users := service.NewUserService(service.UserServiceOptions{
			Users: data.NewUserRepo(db),
		})

		req := &model.UpsertUserRequest{Email: opts.Email}
		if opts.Nome != "" {
			req.NomeCompleto = &opts.Nome
		}
		if opts.Password != "" {
			req.Password = &opts.Password
		}
		if opts.Inactive {
			inactive := false
			req.Ativo = &inactive
		}

		if existing, findErr := users.GetByEmail(ctx, opts.Email); findErr == nil {
			req.ID = &existing.ID
		} else if !apperrors.IsNotFound(findErr) {
			return findErr
		}

		user, upsertErr := users.Upsert(ctx, req)
		if upsertErr != nil {
			return upsertErr
		}

		verb := "created"
		if req.ID != nil {
			verb = "updated"
		}
		cmdCtx.Logger.Info("user "+verb, "id", user.ID, "email", user.Email)
		return writef(os.Stdout, "User %s: %s (%s)\n", verb, user.Email, user.ID)
	})
}

func runUserDeactivate(cmdCtx *commandContext, args []string) error {
	opts, err := parseUserDeactivateFlags(args)
	if err != nil {
		return err
	}

	if confirmErr := confirmAction(opts.Yes, fmt.Sprintf("deactivate user %q", opts.Email)); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users := service.NewUserService(service.UserServiceOptions{
			Users: data.NewUserRepo(db),
		})

		user, findErr := users.GetByEmail(ctx, opts.Email)
		if findErr != nil {
			return findErr
		}
		if deactivateErr := users.Deactivate(ctx, user.ID); deactivateErr != nil {
			return deactivateErr
		}

		cmdCtx.Logger.Info("user deactivated", "id", user.ID, "email", user.Email)
		return writef(os.Stdout, "User deactivated: %s (%s)\n", user.Email, user.ID)
	})
}

func runInvite(cmdCtx *commandContext, args []string) error {
	opts, err := parseInviteFlags(args)
	if err != nil {
		return err
	}

	directory := bootstrap.BuildIdentityDirectory(cmdCtx.Config.Directory, cmdCtx.Logger)
	if directory == nil {
		return fmt.Errorf(
			"identity provider admin surface is not configured; set %s and %s",
			"AUTH_PROVIDER_URL", "AUTH_PROVIDER_SERVICE_KEY",
		)
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		accounts := service.NewAccountService(service.AccountServiceOptions{
			Users:     data.NewUserRepo(db),
			Directory: directory,
			Logger:    cmdCtx.Logger,
		})

		if inviteErr := accounts.Invite(ctx, opts.Email, opts.RedirectTo); inviteErr != nil {
			return inviteErr
		}

		cmdCtx.Logger.Info("invite sent", "email", opts.Email)
		return writef(os.Stdout, "Magic-link invite sent to %s\n", opts.Email)
	})
}

func parseUserCreateFlags(args []string) (userCreateOptions, error) {
	fs := flag.NewFlagSet("user-create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userCreateOptions
	fs.StringVar(&opts.Email, "email", "", "Email address of the account (required)")
	fs.StringVar(&opts.Nome, "nome", "", "Full name of the account holder")
	fs.StringVar(&opts.Password, "password", "", "Initial password; omit to bootstrap a temporary one at first login")
	fs.BoolVar(&opts.Inactive, "inactive", false, "Create the account in the inactive state")

	if err := fs.Parse(args); err != nil {
		return userCreateOptions{}, err
	}
	if opts.Email == "" {
		return userCreateOptions{}, errors.New("--email is required")
	}

	return opts, nil
}

func parseUserDeactivateFlags(args []string) (userDeactivateOptions, error) {
	fs := flag.NewFlagSet("user-deactivate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userDeactivateOptions
	fs.StringVar(&opts.Email, "email", "", "Email address of the account (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return userDeactivateOptions{}, err
	}
	if opts.Email == "" {
		return userDeactivateOptions{}, errors.New("--email is required")
	}

	return opts, nil
}

func parseInviteFlags(args []string) (inviteOptions, error) {
	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts inviteOptions
	fs.StringVar(&opts.Email, "email", "", "Email address to invite (required)")
	fs.StringVar(&opts.RedirectTo, "redirect-to", "", "URL the magic link should land on")

	if err := fs.Parse(args); err != nil {
		return inviteOptions{}, err
	}
	if opts.Email == "" {
		return inviteOptions{}, errors.New("--email is required")
	}

	return opts, nil
}
