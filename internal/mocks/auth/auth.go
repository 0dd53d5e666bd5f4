package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider      = (*MockAuthProvider)(nil)
	_ ports.SessionStore      = (*MemorySessionStore)(nil)
	_ ports.RoleMapper        = (*StaticRoleMapper)(nil)
	_ ports.IdentityDirectory = (*MemoryDirectory)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			Nome:      "Mock User",
			Email:     "mock.user@example.com",
			Groups:    []string{"users"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID: "mock-user-1",
			Nome:   "Mock User",
			Email:  "mock.user@example.com",
			Groups: []string{"users"},
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	// TouchErr, when set, is returned by Touch so tests can exercise
	// refresh-failure paths.
	TouchErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Touch(_ context.Context, id string, expiresAt time.Time) error {
	if m.TouchErr != nil {
		return m.TouchErr
	}
	sess, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.ExpiresAt = expiresAt
	m.sessions[id] = sess
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	return domainauth.RoleGuest
}

// MemoryDirectory is an in-memory identity-provider admin surface. It records
// password sets and magic links so tests can assert on converge behavior.
type MemoryDirectory struct {
	accounts map[string]ports.DirectoryAccount

	// Passwords records the last password set per account ID.
	Passwords map[string]string
	// MagicLinks records every magic-link request as "email|redirectTo".
	MagicLinks []string

	// FailWith, when set, is returned by every method.
	FailWith error

	nextID int
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		accounts:  make(map[string]ports.DirectoryAccount),
		Passwords: make(map[string]string),
	}
}

// Add pre-seeds an account and returns it.
func (m *MemoryDirectory) Add(email string) ports.DirectoryAccount {
	m.nextID++
	acct := ports.DirectoryAccount{
		ID:    fmt.Sprintf("dir-%d", m.nextID),
		Email: strings.ToLower(email),
	}
	m.accounts[acct.Email] = acct
	return acct
}

func (m *MemoryDirectory) FindByEmail(_ context.Context, email string) (ports.DirectoryAccount, error) {
	if m.FailWith != nil {
		return ports.DirectoryAccount{}, m.FailWith
	}
	acct, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return ports.DirectoryAccount{}, ports.ErrAccountNotFound
	}
	return acct, nil
}

func (m *MemoryDirectory) Create(_ context.Context, email, password string) (ports.DirectoryAccount, error) {
	if m.FailWith != nil {
		return ports.DirectoryAccount{}, m.FailWith
	}
	acct := m.Add(email)
	m.Passwords[acct.ID] = password
	return acct, nil
}

func (m *MemoryDirectory) SetPassword(_ context.Context, accountID, password string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Passwords[accountID] = password
	return nil
}

func (m *MemoryDirectory) SendMagicLink(_ context.Context, email, redirectTo string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.MagicLinks = append(m.MagicLinks, email+"|"+redirectTo)
	return nil
}
