package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaocx/acesso-api/internal/ports"
)

// newDiscoveryServer serves a minimal OIDC discovery document whose issuer
// matches the server's own URL, which is what go-oidc validates.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		doc := map[string]any{
			"issuer":                 server.URL,
			"authorization_endpoint": server.URL + "/authorize",
			"token_endpoint":         server.URL + "/token",
			"userinfo_endpoint":      server.URL + "/userinfo",
			"jwks_uri":               server.URL + "/jwks",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[]}`))
	})
	return server
}

func testProviderConfig(server *httptest.Server) ProviderConfig {
	return ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email groups",
		DiscoveryURL: server.URL,
		LogoutURL:    server.URL + "/logout",
	}
}

func TestNewProvider_Success(t *testing.T) {
	server := newDiscoveryServer(t)

	provider, err := NewProvider(testProviderConfig(server))
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.Equal(t, server.URL+"/authorize", provider.config.Endpoint.AuthURL)
	assert.Equal(t, server.URL+"/token", provider.config.Endpoint.TokenURL)
	assert.Equal(t, server.URL+"/logout", provider.LogoutURL())
}

func TestNewProvider_AcceptsFullDiscoveryURL(t *testing.T) {
	server := newDiscoveryServer(t)

	cfg := testProviderConfig(server)
	cfg.DiscoveryURL = server.URL + "/.well-known/openid-configuration"

	provider, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	server := newDiscoveryServer(t)

	tests := []struct {
		name   string
		mutate func(*ProviderConfig)
	}{
		{name: "missing client ID", mutate: func(c *ProviderConfig) { c.ClientID = "" }},
		{name: "missing client secret", mutate: func(c *ProviderConfig) { c.ClientSecret = "" }},
		{name: "missing redirect URL", mutate: func(c *ProviderConfig) { c.RedirectURL = "" }},
		{name: "missing discovery URL", mutate: func(c *ProviderConfig) { c.DiscoveryURL = "" }},
		{name: "invalid groups query", mutate: func(c *ProviderConfig) { c.GroupsQuery = "[invalid(" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testProviderConfig(server)
			tt.mutate(&cfg)

			_, err := NewProvider(cfg)
			assert.Error(t, err)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	server := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(server))
	require.NoError(t, err)

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/dashboard"})
	require.NoError(t, err)

	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)
	assert.NotEqual(t, state, nonce)
	assert.Contains(t, authURL, server.URL+"/authorize")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)
	assert.Contains(t, authURL, "response_type=code")
}

func TestProvider_Begin_EmptyRedirectURL(t *testing.T) {
	server := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(server))
	require.NoError(t, err)

	_, _, _, err = provider.Begin(context.Background(), ports.BeginInput{})
	assert.Error(t, err)
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	server := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(server))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input ports.ExchangeInput
	}{
		{name: "missing code", input: ports.ExchangeInput{State: "s", Nonce: "n"}},
		{name: "missing state", input: ports.ExchangeInput{Code: "c", Nonce: "n"}},
		{name: "missing nonce", input: ports.ExchangeInput{Code: "c", State: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, exchangeErr := provider.Exchange(context.Background(), tt.input)
			assert.Error(t, exchangeErr)
		})
	}
}

func TestProvider_MapClaims(t *testing.T) {
	p := &Provider{}

	identity := p.mapClaims(map[string]any{
		"sub":    "user-123",
		"name":   "Ana Souza",
		"email":  "ana@example.com",
		"groups": []any{"admins", "users"},
	})

	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "Ana Souza", identity.Nome)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.Equal(t, []string{"admins", "users"}, identity.Groups)
}

func TestProvider_MapClaims_FullNameFallback(t *testing.T) {
	p := &Provider{}

	identity := p.mapClaims(map[string]any{
		"sub":       "user-123",
		"full_name": "Bruno Lima",
	})

	assert.Equal(t, "Bruno Lima", identity.Nome)
}

func TestProvider_ExtractGroups_JMESPath(t *testing.T) {
	p := &Provider{groupsQuery: "app_metadata.groups"}

	groups := p.extractGroups(map[string]any{
		"groups": []any{"top-level"},
		"app_metadata": map[string]any{
			"groups": []any{"nested-admins"},
		},
	})

	assert.Equal(t, []string{"nested-admins"}, groups)
}

func TestProvider_ExtractGroups_FallsBackToStandardClaim(t *testing.T) {
	p := &Provider{groupsQuery: "app_metadata.groups"}

	groups := p.extractGroups(map[string]any{
		"groups": []any{"top-level"},
	})

	assert.Equal(t, []string{"top-level"}, groups)
}

func TestGenerateRandomString(t *testing.T) {
	for _, length := range []int{1, 16, 32, 43} {
		s, err := generateRandomString(length)
		require.NoError(t, err)
		assert.Len(t, s, length)
	}

	a, err := generateRandomString(32)
	require.NoError(t, err)
	b, err := generateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	empty, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, toStringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"a"}, toStringSlice([]any{"a", 42}))
	assert.Nil(t, toStringSlice("not-a-slice"))
	assert.Nil(t, toStringSlice(nil))
}

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ ports.AuthProvider = (*Provider)(nil)
}
