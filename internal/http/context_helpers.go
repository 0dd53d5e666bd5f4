package httpx

import (
	"context"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
)

// sessionKey is the single context key under which the SessionGate stores
// the resolved session. Unexported so other packages cannot collide.
type sessionKey struct{}

// SetSessionInContext attaches session to ctx. A nil session leaves ctx
// untouched so absence stays distinguishable from a stored nil.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the session the guard attached, with
// an explicit presence flag.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// GetSessionFromContext is the nil-on-absence variant.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	session, _ := GetUserSessionFromContext(ctx)
	return session
}

// IsGuestUser reports whether the request is unauthenticated or carries a
// guest session; every authorization default starts from this.
func IsGuestUser(ctx context.Context) bool {
	session, ok := GetUserSessionFromContext(ctx)
	return !ok || session.IsGuest()
}
