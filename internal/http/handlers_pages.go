package httpx

import (
	"net/http"
	"net/url"

	"github.com/gestaocx/acesso-api/internal/domain/model"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
)

// PageHandlers serves the small page surface this service still owns. The
// login pages from the previous system survive as routes so old bookmarks
// keep working; rendering moved to the frontends, so they forward into the
// auth flow.
type PageHandlers struct {
	Access AccessServiceInterface
	Users  UsersServiceInterface
}

// SigninRedirect forwards the legacy sign-in surfaces into the auth flow,
// preserving the requested destination.
// GET /signin, GET /acesso-geral.
func (h *PageHandlers) SigninRedirect(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect"))
	if redirect == "/" {
		redirect = PathDashboard
	}
	http.Redirect(w, r, "/auth/login?redirect="+url.QueryEscape(redirect), http.StatusSeeOther)
}

// AcessoReset answers the public reset path. Password recovery is owned by
// the identity provider; clients trigger it through the invite endpoint.
// GET /acesso-reset.
func (h *PageHandlers) AcessoReset(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "password recovery is handled by the identity provider; request a login link via POST /api/auth/invite",
	})
}

// Dashboard is the post-login landing. It returns the session user and the
// systems they hold roles in; with exactly one system the client forwards
// straight to it.
// GET /dashboard.
func (h *PageHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	systems := []*model.System{}
	if user, err := h.Users.GetByEmail(r.Context(), session.Email); err == nil {
		if list, listErr := h.Access.ListSystemsForUser(r.Context(), user.ID); listErr == nil {
			systems = list
		}
	} else if !apperrors.IsNotFound(err) {
		WriteAppError(w, err)
		return
	}

	resp := map[string]any{
		"user": map[string]any{
			"id":    session.UserID,
			"nome":  session.Nome,
			"email": session.Email,
			"role":  session.Role,
		},
		"systems": systems,
	}
	if len(systems) == 1 && systems[0].URL != nil {
		resp["landing"] = *systems[0].URL
	}
	WriteJSON(w, http.StatusOK, resp)
}
