package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/service"
)

func newTestRouter(sessions map[string]domainauth.Session) http.Handler {
	auth := &mockAuthService{
		getSessionFunc: func(_ context.Context, sessionID string) (*service.SessionResult, error) {
			s, ok := sessions[sessionID]
			if !ok {
				return nil, errSessionNotFound
			}
			return &service.SessionResult{Session: s}, nil
		},
	}
	return NewRouter(RouterServices{
		Auth:     auth,
		Accounts: &mockAccountService{},
		Access:   &mockAccessService{},
		Users:    &mockUsersService{},
	})
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnauthenticatedPageRedirectsToLogin(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), PathAcessoGeral+"?redirect=")
}

func TestRouter_UnauthenticatedAPIGetsJSON401(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/access/data", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestRouter_NonAdminCannotAdministerAccess(t *testing.T) {
	sessions := map[string]domainauth.Session{
		"sess-user": {
			ID:        "sess-user",
			Email:     "ana@example.com",
			Role:      domainauth.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	router := newTestRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/access/data", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess-user"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AdminReadsSnapshot(t *testing.T) {
	sessions := map[string]domainauth.Session{
		"sess-admin": {
			ID:        "sess-admin",
			Email:     "admin@example.com",
			Role:      domainauth.RoleAdmin,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	router := newTestRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/access/data", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess-admin"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_EnsureUserIsUnauthenticated(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/ensure-user",
		strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ana@example.com"`)
}

func TestRouter_AuthenticatedUserListsOwnSystems(t *testing.T) {
	sessions := map[string]domainauth.Session{
		"sess-user": {
			ID:        "sess-user",
			Email:     "ana@example.com",
			Role:      domainauth.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	router := newTestRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/access/systems/mine", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess-user"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"systems"`)
}
