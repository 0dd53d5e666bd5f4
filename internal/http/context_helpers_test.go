package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
)

func TestSessionContextRoundTrip(t *testing.T) {
	s, ok := GetUserSessionFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, s)

	sess := &domainauth.Session{ID: "abc", Role: domainauth.RoleUser}
	ctx := SetSessionInContext(context.Background(), sess)

	got, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, sess, got)
	assert.Same(t, sess, GetSessionFromContext(ctx))
}

func TestSetSessionInContext_NilIsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
}

func TestIsGuestUser(t *testing.T) {
	assert.True(t, IsGuestUser(context.Background()), "no session means guest")

	withRole := func(r domainauth.Role) context.Context {
		return SetSessionInContext(context.Background(), &domainauth.Session{ID: "s", Role: r})
	}
	assert.True(t, IsGuestUser(withRole(domainauth.RoleGuest)))
	assert.False(t, IsGuestUser(withRole(domainauth.RoleUser)))
	assert.False(t, IsGuestUser(withRole(domainauth.RoleAdmin)))
}
