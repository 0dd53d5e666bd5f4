package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	mocks "github.com/gestaocx/acesso-api/internal/mocks/auth"
	"github.com/gestaocx/acesso-api/internal/ports"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	touchFunc  func(context.Context, string, time.Time) error
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	if m.touchFunc != nil {
		return m.touchFunc(ctx, id, expiresAt)
	}
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestAuthService(sessions ports.SessionStore, now func() time.Time) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
		Roles:    mocks.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
		TimeNow:  now,
	})
}

func TestNewAuthService_Defaults(t *testing.T) {
	service := newTestAuthService(mocks.NewMemorySessionStore(), nil)

	assert.Equal(t, 8*time.Hour, service.sessionTTL)
	assert.Equal(t, 30*time.Minute, service.refreshWindow)
	assert.NotNil(t, service.now)
}

func TestAuthService_BeginLogin_Success(t *testing.T) {
	service := newTestAuthService(mocks.NewMemorySessionStore(), nil)

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_RequiresRedirectURL(t *testing.T) {
	service := newTestAuthService(mocks.NewMemorySessionStore(), nil)

	_, err := service.BeginLogin(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthService_CompleteLogin_MapsRoleAndPersists(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	provider := mocks.NewMockAuthProvider()
	provider.DefaultUser = domainauth.Identity{
		UserID: "u-1",
		Nome:   "Ana Souza",
		Email:  "ana@example.com",
		Groups: []string{"admins"},
	}

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    mocks.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "code",
		State: "state",
		Nonce: "nonce",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "u-1", result.Session.UserID)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)

	stored, err := sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email)
}

func TestAuthService_CompleteLogin_CapsExpiryAtIdentityExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	idpExpiry := now.Add(time.Hour)

	provider := mocks.NewMockAuthProvider()
	provider.ExchangeFunc = func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{
			UserID:    "u-1",
			Email:     "ana@example.com",
			Groups:    []string{"users"},
			ExpiresAt: idpExpiry,
		}, nil
	}

	service := NewAuthService(AuthServiceOptions{
		Provider:   provider,
		Sessions:   mocks.NewMemorySessionStore(),
		Roles:      mocks.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
		SessionTTL: 8 * time.Hour,
		TimeNow:    func() time.Time { return now },
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})

	require.NoError(t, err)
	assert.True(t, result.Session.ExpiresAt.Equal(idpExpiry))
}

func TestAuthService_CompleteLogin_ValidatesInput(t *testing.T) {
	service := newTestAuthService(mocks.NewMemorySessionStore(), nil)
	ctx := context.Background()

	_, err := service.CompleteLogin(ctx, CompleteLoginInput{State: "s", Nonce: "n"})
	assert.Error(t, err)

	_, err = service.CompleteLogin(ctx, CompleteLoginInput{Code: "c", Nonce: "n"})
	assert.Error(t, err)

	_, err = service.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s"})
	assert.Error(t, err)
}

func TestAuthService_GetSession_NoRefreshOutsideWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	expiry := now.Add(2 * time.Hour)
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		UserID:    "u-1",
		ExpiresAt: expiry,
	}))

	service := NewAuthService(AuthServiceOptions{
		Provider:      mocks.NewMockAuthProvider(),
		Sessions:      sessions,
		Roles:         mocks.StaticRoleMapper{},
		SessionTTL:    8 * time.Hour,
		RefreshWindow: 30 * time.Minute,
		TimeNow:       func() time.Time { return now },
	})

	result, err := service.GetSession(context.Background(), "s1")

	require.NoError(t, err)
	assert.False(t, result.Refreshed)
	assert.True(t, result.Session.ExpiresAt.Equal(expiry))
}

func TestAuthService_GetSession_SlidingRefreshInsideWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		UserID:    "u-1",
		ExpiresAt: now.Add(10 * time.Minute),
	}))

	service := NewAuthService(AuthServiceOptions{
		Provider:      mocks.NewMockAuthProvider(),
		Sessions:      sessions,
		Roles:         mocks.StaticRoleMapper{},
		SessionTTL:    8 * time.Hour,
		RefreshWindow: 30 * time.Minute,
		TimeNow:       func() time.Time { return now },
	})

	result, err := service.GetSession(context.Background(), "s1")

	require.NoError(t, err)
	assert.True(t, result.Refreshed)
	assert.True(t, result.Session.ExpiresAt.Equal(now.Add(8*time.Hour)))

	// the store must agree so later lookups see the extension
	stored, err := sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, stored.ExpiresAt.Equal(now.Add(8*time.Hour)))
}

func TestAuthService_GetSession_TouchFailureServesUnrefreshed(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	sessions.TouchErr = errors.New("redis down")
	expiry := now.Add(10 * time.Minute)
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		ExpiresAt: expiry,
	}))

	service := NewAuthService(AuthServiceOptions{
		Provider:      mocks.NewMockAuthProvider(),
		Sessions:      sessions,
		Roles:         mocks.StaticRoleMapper{},
		SessionTTL:    8 * time.Hour,
		RefreshWindow: 30 * time.Minute,
		TimeNow:       func() time.Time { return now },
	})

	result, err := service.GetSession(context.Background(), "s1")

	require.NoError(t, err)
	assert.False(t, result.Refreshed)
	assert.True(t, result.Session.ExpiresAt.Equal(expiry))
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		ExpiresAt: now.Add(-time.Minute),
	}))

	service := newTestAuthService(sessions, func() time.Time { return now })

	_, err := service.GetSession(context.Background(), "s1")

	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))

	_, err = sessions.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, mocks.ErrNotFound)
}

func TestAuthService_GetSession_StoreError(t *testing.T) {
	store := &mockSessionStore{
		getFunc: func(context.Context, string) (domainauth.Session, error) {
			return domainauth.Session{}, errors.New("redis down")
		},
	}
	service := newTestAuthService(store, nil)

	_, err := service.GetSession(context.Background(), "s1")
	assert.Error(t, err)
	assert.False(t, IsSessionExpired(err))
}

func TestAuthService_Logout(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	service := newTestAuthService(sessions, nil)

	require.NoError(t, service.Logout(context.Background(), "s1"))
	_, err := sessions.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, mocks.ErrNotFound)

	// Empty session ID is a no-op.
	assert.NoError(t, service.Logout(context.Background(), ""))
}
