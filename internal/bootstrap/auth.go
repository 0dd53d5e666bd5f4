package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gestaocx/acesso-api/config"
	"github.com/gestaocx/acesso-api/internal/adapters/authroles"
	"github.com/gestaocx/acesso-api/internal/adapters/devauth"
	"github.com/gestaocx/acesso-api/internal/adapters/gotrue"
	"github.com/gestaocx/acesso-api/internal/adapters/oidc"
	redisadapter "github.com/gestaocx/acesso-api/internal/adapters/redis"
	"github.com/gestaocx/acesso-api/internal/ports"
	"github.com/gestaocx/acesso-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	HTTP        config.HTTPConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid; the
// route guard then fails closed for every non-public path.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	roleMapper := authroles.StaticRoleMapper{
		AdminGroup: cfg.Auth.AdminGroup,
		UserGroup:  cfg.Auth.UserGroup,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore, roleMapper)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, sessionStore, roleMapper)

	default:
		return nil
	}
}

// BuildIdentityDirectory creates the provider admin client, or nil when the
// provider settings are absent. Callers treat nil as "not configured".
//
//nolint:ireturn // port interface keeps the service decoupled from the concrete client.
func BuildIdentityDirectory(cfg config.DirectoryConfig, logger *slog.Logger) ports.IdentityDirectory {
	if !cfg.IsConfigured() {
		if logger != nil {
			logger.Warn("identity directory not configured; credential bridge will report config errors")
		}
		return nil
	}

	client, err := gotrue.NewClient(gotrue.Config{
		BaseURL:    cfg.URL,
		AnonKey:    cfg.AnonKey,
		ServiceKey: cfg.ServiceKey,
	})
	if err != nil {
		if logger != nil {
			logger.Warn("failed to create identity directory client", "error", err)
		}
		return nil
	}
	return client
}

func buildDevAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.StaticRoleMapper,
) *service.AuthService {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.Auth.DevAuth.UserID,
		Nome:   cfg.Auth.DevAuth.Nome,
		Email:  cfg.Auth.DevAuth.Email,
		Groups: cfg.Auth.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:      prov,
		Sessions:      sessionStore,
		Roles:         roleMapper,
		SessionTTL:    cfg.HTTP.SessionTTL,
		RefreshWindow: cfg.HTTP.SessionRefreshWindow,
	})
}

func buildOAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.StaticRoleMapper,
) *service.AuthService {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
		GroupsQuery:  oauth.GroupsQuery,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:      prov,
		Sessions:      sessionStore,
		Roles:         roleMapper,
		SessionTTL:    cfg.HTTP.SessionTTL,
		RefreshWindow: cfg.HTTP.SessionRefreshWindow,
	})
}
