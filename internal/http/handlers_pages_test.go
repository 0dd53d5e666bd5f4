package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/domain/model"
	"github.com/gestaocx/acesso-api/internal/testutil"
)

func TestPageHandlers_SigninRedirectPreservesDestination(t *testing.T) {
	h := &PageHandlers{}

	req := httptest.NewRequest(http.MethodGet, "/acesso-geral?redirect=/admin/acessos", nil)
	w := httptest.NewRecorder()

	h.SigninRedirect(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect=%2Fadmin%2Facessos", w.Header().Get("Location"))
}

func TestPageHandlers_SigninRedirectDefault(t *testing.T) {
	h := &PageHandlers{}

	req := httptest.NewRequest(http.MethodGet, "/signin", nil)
	w := httptest.NewRecorder()

	h.SigninRedirect(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect=%2Fdashboard", w.Header().Get("Location"))
}

func TestPageHandlers_SigninRedirectRejectsAbsoluteURL(t *testing.T) {
	h := &PageHandlers{}

	req := httptest.NewRequest(http.MethodGet, "/signin?redirect=https://evil.example.com/", nil)
	w := httptest.NewRecorder()

	h.SigninRedirect(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect=%2Fdashboard", w.Header().Get("Location"))
}

func TestPageHandlers_Dashboard_SingleSystemLanding(t *testing.T) {
	h := &PageHandlers{
		Access: &mockAccessService{
			listSystemsForUserFunc: func(context.Context, string) ([]*model.System, error) {
				return []*model.System{{
					ID:    "s-1",
					Nome:  "Contratos",
					Sigla: "GCON",
					URL:   testutil.StringPtr("http://localhost:4000"),
					Ativo: true,
				}}, nil
			},
		},
		Users: &mockUsersService{},
	}

	session := &domainauth.Session{ID: "sess-1", Email: "ana@example.com", Role: domainauth.RoleUser}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), session))
	w := httptest.NewRecorder()

	h.Dashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"landing":"http://localhost:4000"`)
}

func TestPageHandlers_Dashboard_MultipleSystemsNoLanding(t *testing.T) {
	h := &PageHandlers{
		Access: &mockAccessService{
			listSystemsForUserFunc: func(context.Context, string) ([]*model.System, error) {
				return []*model.System{{ID: "s-1", Sigla: "GCON"}, {ID: "s-2", Sigla: "GPAT"}}, nil
			},
		},
		Users: &mockUsersService{},
	}

	session := &domainauth.Session{ID: "sess-1", Email: "ana@example.com", Role: domainauth.RoleUser}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), session))
	w := httptest.NewRecorder()

	h.Dashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"landing"`)
	assert.Contains(t, w.Body.String(), `"GPAT"`)
}

func TestPageHandlers_Dashboard_Unauthenticated(t *testing.T) {
	h := &PageHandlers{Access: &mockAccessService{}, Users: &mockUsersService{}}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	h.Dashboard(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
