package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against the
// identity provider. Magic-link and OTP logins land on the same Exchange
// surface as interactive OAuth logins.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	// Touch extends an existing session's expiry (sliding refresh).
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to an application role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// ErrAccountNotFound is returned by IdentityDirectory lookups with no match.
var ErrAccountNotFound = errors.New("directory account not found")

// DirectoryAccount is an identity-provider account record.
type DirectoryAccount struct {
	ID    string
	Email string
}

// IdentityDirectory is the administrative surface of the identity provider,
// used by the legacy login bridge to keep the provider account in step with
// the credential store. The provider remains the system of record for
// session issuance.
type IdentityDirectory interface {
	FindByEmail(ctx context.Context, email string) (DirectoryAccount, error)
	Create(ctx context.Context, email, password string) (DirectoryAccount, error)
	SetPassword(ctx context.Context, accountID, password string) error
	// SendMagicLink emails a one-time login URL that lands on /auth/callback.
	SendMagicLink(ctx context.Context, email, redirectTo string) error
}
