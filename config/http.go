package config

import (
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://acesso.example.com").
	// Used for generating absolute URLs handed to the identity provider.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SessionTTL is the session lifetime granted on login and on each
	// sliding refresh.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// SessionRefreshWindow is how close to expiry a session must be before
	// a request extends it.
	SessionRefreshWindow time.Duration `env:"SESSION_REFRESH_WINDOW" envDefault:"30m"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.SessionTTL <= 0 {
		h.SessionTTL = 8 * time.Hour
	}
	if h.SessionRefreshWindow <= 0 || h.SessionRefreshWindow >= h.SessionTTL {
		h.SessionRefreshWindow = 30 * time.Minute
	}

	// A cookie domain that is itself a public suffix (e.g. "com.br") would
	// be rejected by browsers; drop it rather than silently losing sessions.
	h.CookieDomain = strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), ".")
	if h.CookieDomain != "" {
		if suffix, _ := publicsuffix.PublicSuffix(h.CookieDomain); suffix == h.CookieDomain {
			h.CookieDomain = ""
		}
	}
}
