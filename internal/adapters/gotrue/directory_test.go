package gotrue

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

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		AnonKey:    "anon-key",
		ServiceKey: "service-key",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{ServiceKey: "key"})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://auth.example.com"})
	assert.Error(t, err)

	client, err := NewClient(Config{BaseURL: "https://auth.example.com/", ServiceKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com", client.baseURL)
}

func TestClient_FindByEmail(t *testing.T) {
	var gotAuth, gotAPIKey, gotFilter string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		gotFilter = r.URL.Query().Get("filter")

		// The filter matches substrings: the provider may return near-misses.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{
				{"id": "acc-2", "email": "ana.souza.antiga@example.com"},
				{"id": "acc-1", "email": "Ana.Souza@example.com"},
			},
		})
	})
	client := newTestClient(t, handler)

	account, err := client.FindByEmail(context.Background(), "ana.souza@example.com")

	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "ana.souza@example.com", gotFilter)
}

func TestClient_FindByEmail_NoExactMatch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{
				{"id": "acc-2", "email": "ana.souza.antiga@example.com"},
			},
		})
	})
	client := newTestClient(t, handler)

	_, err := client.FindByEmail(context.Background(), "ana.souza@example.com")
	assert.ErrorIs(t, err, ports.ErrAccountNotFound)
}

func TestClient_Create(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "acc-9", "email": "novo@example.com"})
	})
	client := newTestClient(t, handler)

	account, err := client.Create(context.Background(), "novo@example.com", "Abc234defg")

	require.NoError(t, err)
	assert.Equal(t, "acc-9", account.ID)
	assert.Equal(t, "novo@example.com", gotBody["email"])
	assert.Equal(t, "Abc234defg", gotBody["password"])
	assert.Equal(t, true, gotBody["email_confirm"])
}

func TestClient_SetPassword(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, handler)

	err := client.SetPassword(context.Background(), "acc-9", "nova-senha")

	require.NoError(t, err)
	assert.Equal(t, "/admin/users/acc-9", gotPath)
	assert.Equal(t, "nova-senha", gotBody["password"])
}

func TestClient_SetPassword_UnknownAccount(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := newTestClient(t, handler)

	err := client.SetPassword(context.Background(), "missing", "senha")
	assert.ErrorIs(t, err, ports.ErrAccountNotFound)
}

func TestClient_SendMagicLink(t *testing.T) {
	var gotRedirect string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/magiclink", r.URL.Path)
		gotRedirect = r.URL.Query().Get("redirect_to")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, handler)

	err := client.SendMagicLink(context.Background(), "ana@example.com", "https://app.example.com/dashboard")

	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/dashboard", gotRedirect)
	assert.Equal(t, "ana@example.com", gotBody["email"])
}

func TestClient_ServerErrorIncludesBodySnippet(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"password is too short"}`))
	})
	client := newTestClient(t, handler)

	_, err := client.Create(context.Background(), "novo@example.com", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "password is too short")
}

func TestClient_ImplementsDirectory(t *testing.T) {
	var _ ports.IdentityDirectory = (*Client)(nil)
}
