package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gestaocx/acesso-api/config"
	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/observability/statsd"
	"github.com/gestaocx/acesso-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Accounts *service.AccountService
	Access   *service.AccessService
	Users    *service.UserService

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters, and services.
func BuildServices(deps ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := data.NewUserRepo(deps.DB)
	systemRepo := data.NewSystemRepo(deps.DB)
	roleRepo := data.NewRoleRepo(deps.DB)
	grantRepo := data.NewGrantRepo(deps.DB)

	directory := BuildIdentityDirectory(deps.Config.Directory, logger)

	authSvc := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		HTTP:        deps.Config.HTTP,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Auth: authSvc,
		Accounts: service.NewAccountService(service.AccountServiceOptions{
			Users:     userRepo,
			Directory: directory,
			Logger:    logger,
		}),
		Access: service.NewAccessService(service.AccessServiceOptions{
			Systems: systemRepo,
			Roles:   roleRepo,
			Grants:  grantRepo,
			Users:   userRepo,
		}),
		Users:         service.NewUserService(service.UserServiceOptions{Users: userRepo}),
		Observability: buildObservability(logger, deps.Config.Observability),
	}
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	container := ObservabilityContainer{MetricsConfig: cfg.Metrics}

	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "acesso",
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			container.MetricsSink = client
		}
	}

	return container
}
