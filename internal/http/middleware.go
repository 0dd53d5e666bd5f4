package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/observability/metrics"
	"github.com/gestaocx/acesso-api/internal/observability/statsd"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer so http.ResponseController can reach
// Flusher/Hijacker implementations hidden by the wrapper.
func (w *respWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// publicPrefixes are path prefixes reachable without a session. Everything
// else behind the SessionGate requires one; any failure while resolving the
// session counts as no session.
var publicPrefixes = []string{
	"/auth/",
	"/static/",
}

// publicPaths are exact paths reachable without a session.
var publicPaths = map[string]bool{
	PathSignin:      true,
	PathAcessoGeral: true,
	PathAcessoReset: true,
	"/healthz":      true,
}

// loginSurfaces are pages that make no sense for an authenticated user;
// the gate bounces them to the dashboard.
var loginSurfaces = map[string]bool{
	PathSignin:      true,
	PathAcessoGeral: true,
	"/auth/login":   true,
}

func isPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SessionGateOptions groups dependencies for the SessionGate middleware.
type SessionGateOptions struct {
	Auth         AuthServiceInterface
	CookieDomain string
	Metrics      statsd.Sink // optional
	Logger       *slog.Logger
}

// SessionGate is the route guard applied to every request. It resolves the
// session cookie and either attaches the session to the context or, for
// page requests outside the public surface, redirects to the login page
// with the original path preserved. API routes pass through unauthenticated
// and are rejected with JSON by their own RequireAuth/RequireRole wrappers,
// so nothing under /api/ is ever redirected.
func SessionGate(opts SessionGateOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolveSession(w, r, opts.Auth, opts.CookieDomain)

			if session != nil {
				if loginSurfaces[r.URL.Path] {
					http.Redirect(w, r, PathDashboard, http.StatusSeeOther)
					return
				}
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if isPublicPath(r.URL.Path) || strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			metrics.EmitAuthEvent(opts.Metrics, metrics.EventGuardRedirect)
			target := PathAcessoGeral + "?redirect=" + url.QueryEscape(safeRedirectPath(r.URL.RequestURI()))
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// RequireAuth returns a middleware that requires authentication.
// If the user is not authenticated, it returns a 401 Unauthorized response.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionForRequest(w, r, authSvc)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that requires a specific role.
// If the user doesn't have the required role, it returns a 403 Forbidden response.
func RequireRole(authSvc AuthServiceInterface, requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionForRequest(w, r, authSvc)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			if !hasRequiredRole(session.Role, requiredRole) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionForRequest returns the session already placed in the context by the
// SessionGate, falling back to resolving the cookie directly so the
// middleware also works standalone in tests.
func sessionForRequest(w http.ResponseWriter, r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(r.Context()); ok {
		return s
	}
	return resolveSession(w, r, authSvc, "")
}

// resolveSession validates the session cookie. A sliding refresh re-issues
// the cookie with the extended expiry. Any resolution error yields nil.
func resolveSession(w http.ResponseWriter, r *http.Request, authSvc AuthServiceInterface, cookieDomain string) *domainauth.Session {
	if authSvc == nil {
		return nil
	}
	sessionCookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}

	result, err := authSvc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}

	if result.Refreshed {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    result.Session.ID,
			Path:     "/",
			Domain:   cookieDomain,
			HttpOnly: true,
			Secure:   isSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(time.Until(result.Session.ExpiresAt).Seconds()),
		})
	}

	return &result.Session
}

// hasRequiredRole checks if the user's role meets the required role.
// Role hierarchy: Guest < User < Admin.
func hasRequiredRole(userRole, requiredRole domainauth.Role) bool {
	roleHierarchy := map[domainauth.Role]int{
		domainauth.RoleGuest: 0,
		domainauth.RoleUser:  1,
		domainauth.RoleAdmin: 2,
	}

	userLevel, userExists := roleHierarchy[userRole]
	requiredLevel, requiredExists := roleHierarchy[requiredRole]

	if !userExists || !requiredExists {
		return false
	}

	return userLevel >= requiredLevel
}
