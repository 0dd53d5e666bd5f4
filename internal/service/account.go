package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gestaocx/acesso-api/internal/core"
	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/data/cryptoutil"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
	"github.com/gestaocx/acesso-api/internal/ports"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Users core.UserRepository
	// Directory may be nil when the identity provider admin surface is not
	// configured; credential operations that need it then fail with a
	// configuration error instead of panicking.
	Directory ports.IdentityDirectory
	Logger    *slog.Logger
}

// AccountService bridges the legacy credential store and the identity
// provider. It validates credentials against the row store and keeps the
// provider account converged so the provider can issue the session.
type AccountService struct {
	users     core.UserRepository
	directory ports.IdentityDirectory
	logger    *slog.Logger
}

// directoryConfigVars names the settings required for provider admin calls.
var directoryConfigVars = []string{"AUTH_PROVIDER_URL", "AUTH_PROVIDER_SERVICE_KEY"}

// NewAccountService constructs a new AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:     opts.Users,
		directory: opts.Directory,
		logger:    logger,
	}
}

// EnsureUserInput carries the legacy login credentials.
type EnsureUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EnsureUserResult is returned on a successful credential check.
// TempPassword is set only when this login bootstrapped a password for an
// account that had none; the caller must surface it to the user once.
type EnsureUserResult struct {
	User         *model.User
	TempPassword string
}

// errBadCredentials is the single rejection for every failure mode that a
// caller probing for accounts could distinguish: unknown email, deactivated
// account, wrong password. It always maps to the same 401.
var errBadCredentials = apperrors.Unauthorized("invalid credentials")

// EnsureUser validates a legacy credential pair and converges the identity
// provider account so the provider can complete the login. Accounts without
// a stored password get a generated temporary one on first touch.
func (s *AccountService) EnsureUser(ctx context.Context, in EnsureUserInput) (*EnsureUserResult, error) {
	if in.Email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	if !model.ValidEmail(in.Email) {
		return nil, apperrors.ValidationField("email", "invalid email format")
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Ativo {
		return nil, errBadCredentials
	}

	result := &EnsureUserResult{User: user}

	// Password the provider account must converge to. Defaults to the
	// submitted one once the row store accepts it.
	effective := in.Password

	if !user.HasPassword() {
		temp, genErr := cryptoutil.GenerateTempPassword()
		if genErr != nil {
			return nil, genErr
		}
		hash, hashErr := cryptoutil.HashPassword(temp)
		if hashErr != nil {
			return nil, hashErr
		}
		if setErr := s.users.SetPasswordHash(ctx, user.ID, &hash); setErr != nil {
			return nil, fmt.Errorf("store bootstrap password: %w", setErr)
		}
		user.SenhaHash = &hash
		result.TempPassword = temp
		effective = temp
		s.logger.Info("bootstrapped password for account without one", "user_id", user.ID)
	} else {
		ok, legacy := cryptoutil.VerifyPassword(*user.SenhaHash, in.Password)
		if !ok {
			return nil, errBadCredentials
		}
		if legacy {
			// Successful login against the old unsalted scheme; rewrite
			// the stored hash with the current KDF.
			hash, hashErr := cryptoutil.HashPassword(in.Password)
			if hashErr != nil {
				return nil, hashErr
			}
			if setErr := s.users.SetPasswordHash(ctx, user.ID, &hash); setErr != nil {
				return nil, fmt.Errorf("upgrade password hash: %w", setErr)
			}
			user.SenhaHash = &hash
			s.logger.Info("upgraded legacy password hash", "user_id", user.ID)
		}
	}

	if convergeErr := s.convergeDirectory(ctx, user.Email, effective); convergeErr != nil {
		return nil, convergeErr
	}

	return result, nil
}

// Invite asks the identity provider to email a one-time login link to an
// existing active account.
func (s *AccountService) Invite(ctx context.Context, email, redirectTo string) error {
	if !model.ValidEmail(email) {
		return apperrors.ValidationField("email", "invalid email format")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}
	if !user.Ativo {
		return apperrors.Validation("user is deactivated")
	}

	if s.directory == nil {
		return apperrors.ConfigMissing(directoryConfigVars...)
	}

	// Provision the provider account first so the link has somewhere to land.
	if _, findErr := s.directory.FindByEmail(ctx, user.Email); findErr != nil {
		if !errors.Is(findErr, ports.ErrAccountNotFound) {
			return fmt.Errorf("directory lookup: %w", findErr)
		}
		temp, genErr := cryptoutil.GenerateTempPassword()
		if genErr != nil {
			return genErr
		}
		if _, createErr := s.directory.Create(ctx, user.Email, temp); createErr != nil {
			return fmt.Errorf("directory create: %w", createErr)
		}
	}

	if sendErr := s.directory.SendMagicLink(ctx, user.Email, redirectTo); sendErr != nil {
		return fmt.Errorf("send magic link: %w", sendErr)
	}
	return nil
}

// convergeDirectory makes the provider account exist with the given password.
func (s *AccountService) convergeDirectory(ctx context.Context, email, password string) error {
	if s.directory == nil {
		return apperrors.ConfigMissing(directoryConfigVars...)
	}

	account, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrAccountNotFound) {
			if _, createErr := s.directory.Create(ctx, email, password); createErr != nil {
				return fmt.Errorf("directory create: %w", createErr)
			}
			return nil
		}
		return fmt.Errorf("directory lookup: %w", err)
	}

	if setErr := s.directory.SetPassword(ctx, account.ID, password); setErr != nil {
		return fmt.Errorf("directory set password: %w", setErr)
	}
	return nil
}
