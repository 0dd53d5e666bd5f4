package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMemorySessionStore_SaveGetTouchDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "s1",
		UserID:    "u1",
		Email:     "u1@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)

	later := sess.ExpiresAt.Add(time.Hour)
	require.NoError(t, store.Touch(ctx, "s1", later))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(later))

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}

	assert.Equal(t, domainauth.RoleAdmin, mapper.Map([]string{"users", "admins"}))
	assert.Equal(t, domainauth.RoleUser, mapper.Map([]string{"users"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map([]string{"other"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map(nil))
}

func TestMemoryDirectory_ConvergeFlow(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	_, err := dir.FindByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, ports.ErrAccountNotFound)

	acct, err := dir.Create(ctx, "Ana@Example.com", "pw-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", acct.Email)
	assert.Equal(t, "pw-1", dir.Passwords[acct.ID])

	found, err := dir.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, found.ID)

	require.NoError(t, dir.SetPassword(ctx, acct.ID, "pw-2"))
	assert.Equal(t, "pw-2", dir.Passwords[acct.ID])

	require.NoError(t, dir.SendMagicLink(ctx, "ana@example.com", "/dashboard"))
	assert.Len(t, dir.MagicLinks, 1)
}
