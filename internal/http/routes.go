package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/observability/statsd"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     AuthServiceInterface
	Accounts AccountServiceInterface
	Access   AccessServiceInterface
	Users    UsersServiceInterface

	CookieDomain string
	Metrics      statsd.Sink  // optional
	Logger       *slog.Logger // optional
}

// NewRouter creates and configures the HTTP router. Every route sits behind
// the SessionGate; API routes additionally carry their own auth middleware
// so unauthenticated API calls fail with JSON instead of a redirect.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Accounts:     services.Accounts,
		Users:        services.Users,
		CookieDomain: services.CookieDomain,
		Metrics:      services.Metrics,
		Logger:       logger,
	}
	accessHandlers := &AccessHandlers{
		Svc:    services.Access,
		Users:  services.Users,
		Logger: logger,
	}
	pageHandlers := &PageHandlers{
		Access: services.Access,
		Users:  services.Users,
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers, services.Auth)
	registerAccessRoutes(mux, accessHandlers, services.Auth)
	registerPageRoutes(mux, pageHandlers)

	gate := SessionGate(SessionGateOptions{
		Auth:         services.Auth,
		CookieDomain: services.CookieDomain,
		Metrics:      services.Metrics,
		Logger:       logger,
	})

	handler := gate(mux)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, authSvc AuthServiceInterface) {
	mux.Handle("GET /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("GET /auth/callback", http.HandlerFunc(h.Callback))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))

	// The credential bridge is called by the login page before the provider
	// flow starts, so it is deliberately unauthenticated.
	mux.Handle("POST /api/auth/ensure-user", http.HandlerFunc(h.EnsureUser))

	requireAdmin := RequireRole(authSvc, domainauth.RoleAdmin)
	mux.Handle("POST /api/auth/invite", requireAdmin(http.HandlerFunc(h.Invite)))
	mux.Handle("GET /api/auth/users", requireAdmin(http.HandlerFunc(h.ListActiveUsers)))
}

func registerAccessRoutes(mux *http.ServeMux, h *AccessHandlers, authSvc AuthServiceInterface) {
	requireAuth := RequireAuth(authSvc)
	requireAdmin := RequireRole(authSvc, domainauth.RoleAdmin)

	mux.Handle("GET /api/access/data", requireAdmin(http.HandlerFunc(h.Data)))

	mux.Handle("POST /api/access/users", requireAdmin(http.HandlerFunc(h.UpsertUser)))
	mux.Handle("POST /api/access/users/{id}/deactivate", requireAdmin(http.HandlerFunc(h.DeactivateUser)))
	mux.Handle("DELETE /api/access/users/{id}", requireAdmin(http.HandlerFunc(h.DeleteUser)))

	mux.Handle("GET /api/access/systems", requireAuth(http.HandlerFunc(h.ListSystems)))
	mux.Handle("POST /api/access/systems", requireAdmin(http.HandlerFunc(h.UpsertSystem)))
	mux.Handle("DELETE /api/access/systems/{id}", requireAdmin(http.HandlerFunc(h.DeleteSystem)))
	mux.Handle("GET /api/access/systems/mine", requireAuth(http.HandlerFunc(h.MySystems)))

	mux.Handle("POST /api/access/roles", requireAdmin(http.HandlerFunc(h.UpsertRole)))
	mux.Handle("DELETE /api/access/roles/{id}", requireAdmin(http.HandlerFunc(h.DeleteRole)))

	mux.Handle("POST /api/access/user-roles", requireAdmin(http.HandlerFunc(h.ToggleGrant)))
	mux.Handle("GET /api/access/user-roles", requireAdmin(http.HandlerFunc(h.UserGrants)))
}

func registerPageRoutes(mux *http.ServeMux, h *PageHandlers) {
	mux.Handle("GET "+PathSignin, http.HandlerFunc(h.SigninRedirect))
	mux.Handle("GET "+PathAcessoGeral, http.HandlerFunc(h.SigninRedirect))
	mux.Handle("GET "+PathAcessoReset, http.HandlerFunc(h.AcessoReset))
	mux.Handle("GET "+PathDashboard, http.HandlerFunc(h.Dashboard))
}
