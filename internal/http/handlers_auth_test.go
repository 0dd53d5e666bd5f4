package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
	"github.com/gestaocx/acesso-api/internal/service"
)

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionResult, error)
	logoutFunc        func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) BeginLogin(
	ctx context.Context,
	redirectURL string,
) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://example.com/auth?state=test-state&nonce=test-nonce",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{
		Session: domainauth.Session{
			ID:        "test-session-id",
			UserID:    "test-user",
			Email:     "test@example.com",
			Role:      domainauth.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}, nil
}

func (m *mockAuthService) GetSession(
	ctx context.Context,
	sessionID string,
) (*service.SessionResult, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	return &service.SessionResult{
		Session: domainauth.Session{
			ID:        sessionID,
			UserID:    "test-user",
			Email:     "test@example.com",
			Role:      domainauth.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

// mockAccountService is a test double for service.AccountService.
type mockAccountService struct {
	ensureUserFunc func(ctx context.Context, in service.EnsureUserInput) (*service.EnsureUserResult, error)
	inviteFunc     func(ctx context.Context, email, redirectTo string) error
}

func (m *mockAccountService) EnsureUser(
	ctx context.Context,
	in service.EnsureUserInput,
) (*service.EnsureUserResult, error) {
	if m.ensureUserFunc != nil {
		return m.ensureUserFunc(ctx, in)
	}
	return &service.EnsureUserResult{
		User: &model.User{ID: "u-1", Email: in.Email, Ativo: true},
	}, nil
}

func (m *mockAccountService) Invite(ctx context.Context, email, redirectTo string) error {
	if m.inviteFunc != nil {
		return m.inviteFunc(ctx, email, redirectTo)
	}
	return nil
}

func TestAuthHandlers_Login_Success(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()

	handlers.Login(w, req)

	assert.Equal(t, http.StatusFound, w.Code)

	// Check that cookies were set
	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	assert.Len(t, cookies, 3) // oauth_state, oauth_nonce, post_login_redirect

	// Check redirect location
	location := w.Header().Get("Location")
	assert.Contains(t, location, "https://example.com/auth")
}

func TestAuthHandlers_Login_WithRedirect(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect=/admin/acessos", nil)
	w := httptest.NewRecorder()

	handlers.Login(w, req)

	assert.Equal(t, http.StatusFound, w.Code)

	// Check that redirect was stored in cookie
	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	var redirectCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "post_login_redirect" {
			redirectCookie = cookie
			break
		}
	}
	require.NotNil(t, redirectCookie)
	assert.Equal(t, "/admin/acessos", redirectCookie.Value)
}

func TestAuthHandlers_Login_LegacyRedirectURIParam(t *testing.T) {
	mockSvc := &mockAuthService{}
	var gotRedirect string
	mockSvc.beginLoginFunc = func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
		gotRedirect = redirectURL
		return &service.BeginLoginResult{AuthURL: "https://example.com/auth", State: "s", Nonce: "n"}, nil
	}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/dashboard", nil)
	w := httptest.NewRecorder()

	handlers.Login(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", gotRedirect)
}

func TestAuthHandlers_Login_InvalidRedirectFallsBack(t *testing.T) {
	mockSvc := &mockAuthService{}
	var gotRedirect string
	mockSvc.beginLoginFunc = func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
		gotRedirect = redirectURL
		return &service.BeginLoginResult{AuthURL: "https://example.com/auth", State: "s", Nonce: "n"}, nil
	}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect=https://evil.example.com/", nil)
	w := httptest.NewRecorder()

	handlers.Login(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", gotRedirect)
}

func TestAuthHandlers_Login_Unconfigured(t *testing.T) {
	handlers := &AuthHandlers{}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()

	handlers.Login(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "auth_unavailable")
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/callback?code=test-code&state=test-state",
		nil,
	)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard"})

	w := httptest.NewRecorder()

	handlers.Callback(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// Check that session cookie was set
	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "session_id" {
			sessionCookie = cookie
			break
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "test-session-id", sessionCookie.Value)
}

func TestAuthHandlers_Callback_MissingCode(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=test-state", nil)
	w := httptest.NewRecorder()

	handlers.Callback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlers_Callback_InvalidState(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(
		http.MethodGet,
		"/auth/callback?code=test-code&state=wrong-state",
		nil,
	)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})

	w := httptest.NewRecorder()

	handlers.Callback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlers_Logout_Success(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})

	w := httptest.NewRecorder()

	handlers.Logout(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, PathSignin, w.Header().Get("Location"))

	// Check that session cookie was cleared
	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "session_id" {
			sessionCookie = cookie
			break
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Empty(t, sessionCookie.Value)
	assert.Equal(t, -1, sessionCookie.MaxAge)
}

func TestAuthHandlers_Logout_AJAX(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})

	w := httptest.NewRecorder()

	handlers.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.Contains(t, w.Body.String(), `"redirect_to":"/signin"`)
}

func TestAuthHandlers_Status_Authenticated(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})

	w := httptest.NewRecorder()

	handlers.Status(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"test@example.com"`)
}

func TestAuthHandlers_Status_NotAuthenticated(t *testing.T) {
	mockSvc := &mockAuthService{
		getSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionResult, error) {
			return nil, errors.New("session not found")
		},
	}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "invalid-session"})

	w := httptest.NewRecorder()

	handlers.Status(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestAuthHandlers_Status_NoSession(t *testing.T) {
	mockSvc := &mockAuthService{}
	handlers := &AuthHandlers{Svc: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	w := httptest.NewRecorder()

	handlers.Status(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestAuthHandlers_EnsureUser_Success(t *testing.T) {
	accounts := &mockAccountService{}
	handlers := &AuthHandlers{Accounts: accounts}

	body := strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/ensure-user", body)
	w := httptest.NewRecorder()

	handlers.EnsureUser(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"ana@example.com"`)
	assert.NotContains(t, w.Body.String(), "temp_password")
}

func TestAuthHandlers_EnsureUser_TempPassword(t *testing.T) {
	accounts := &mockAccountService{
		ensureUserFunc: func(_ context.Context, in service.EnsureUserInput) (*service.EnsureUserResult, error) {
			return &service.EnsureUserResult{
				User:         &model.User{ID: "u-1", Email: in.Email, Ativo: true},
				TempPassword: "Abc234defg",
			}, nil
		},
	}
	handlers := &AuthHandlers{Accounts: accounts}

	body := strings.NewReader(`{"email":"novo@example.com","password":"whatever1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/ensure-user", body)
	w := httptest.NewRecorder()

	handlers.EnsureUser(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"temp_password":"Abc234defg"`)
}

func TestAuthHandlers_EnsureUser_BadCredentials(t *testing.T) {
	accounts := &mockAccountService{
		ensureUserFunc: func(_ context.Context, _ service.EnsureUserInput) (*service.EnsureUserResult, error) {
			return nil, apperrors.Unauthorized("invalid credentials")
		},
	}
	handlers := &AuthHandlers{Accounts: accounts}

	body := strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/ensure-user", body)
	w := httptest.NewRecorder()

	handlers.EnsureUser(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestAuthHandlers_EnsureUser_InvalidJSON(t *testing.T) {
	handlers := &AuthHandlers{Accounts: &mockAccountService{}}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/ensure-user", strings.NewReader("{"))
	w := httptest.NewRecorder()

	handlers.EnsureUser(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_json")
}

func TestAuthHandlers_Invite_Success(t *testing.T) {
	var gotEmail, gotRedirect string
	accounts := &mockAccountService{
		inviteFunc: func(_ context.Context, email, redirectTo string) error {
			gotEmail, gotRedirect = email, redirectTo
			return nil
		},
	}
	handlers := &AuthHandlers{Accounts: accounts}

	body := strings.NewReader(`{"email":"ana@example.com","redirect_to":"/dashboard"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/invite", body)
	w := httptest.NewRecorder()

	handlers.Invite(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"sent"`)
	assert.Equal(t, "ana@example.com", gotEmail)
	assert.Equal(t, "/dashboard", gotRedirect)
}

func TestAuthHandlers_Invite_UnknownAccount(t *testing.T) {
	accounts := &mockAccountService{
		inviteFunc: func(_ context.Context, _, _ string) error {
			return apperrors.NotFound("user not found")
		},
	}
	handlers := &AuthHandlers{Accounts: accounts}

	body := strings.NewReader(`{"email":"missing@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/invite", body)
	w := httptest.NewRecorder()

	handlers.Invite(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
