package config

import "strings"

// DirectoryConfig points at the identity provider's admin REST surface.
// All fields may be absent: the service still boots, and the credential
// bridge reports a configuration error instead of crashing.
type DirectoryConfig struct {
	URL        string `env:"AUTH_PROVIDER_URL"`
	AnonKey    string `env:"AUTH_PROVIDER_ANON_KEY"`
	ServiceKey string `env:"AUTH_PROVIDER_SERVICE_KEY"`

	// SiteBaseURL is where provider-issued links (magic link, recovery)
	// land; defaults to the app base URL when empty.
	SiteBaseURL string `env:"SITE_BASE_URL"`
}

// Sanitize trims whitespace from all values.
func (c *DirectoryConfig) Sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.AnonKey = strings.TrimSpace(c.AnonKey)
	c.ServiceKey = strings.TrimSpace(c.ServiceKey)
	c.SiteBaseURL = strings.TrimSpace(c.SiteBaseURL)
}

// IsConfigured reports whether admin calls to the provider are possible.
func (c *DirectoryConfig) IsConfigured() bool {
	return c.URL != "" && c.ServiceKey != ""
}
