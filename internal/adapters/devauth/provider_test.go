package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaocx/acesso-api/internal/ports"
)

func TestNewProvider_RequiresIdentityFields(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	assert.ErrorContains(t, err, "UserID")

	_, err = NewProvider(Config{UserID: "dev-user"})
	assert.ErrorContains(t, err, "Email")
}

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{
		UserID: "dev-user",
		Nome:   "Dev User",
		Email:  "dev@example.com",
		Groups: []string{"users"},
	})
	require.NoError(t, err)

	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/auth/callback?code=dev&state="), "authURL = %s", url)
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)
	assert.NotEqual(t, state, nonce)

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)

	assert.Equal(t, "dev-user", id.UserID)
	assert.Equal(t, "Dev User", id.Nome)
	assert.Equal(t, "dev@example.com", id.Email)
	assert.Equal(t, []string{"users"}, id.Groups)
	assert.True(t, id.ExpiresAt.After(time.Now()))
}

func TestProvider_ExchangeRefreshesNearExpiry(t *testing.T) {
	prov, err := NewProvider(Config{
		UserID:          "dev-user",
		Email:           "dev@example.com",
		SessionDuration: time.Minute, // inside the refresh threshold from the start
	})
	require.NoError(t, err)

	first, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	require.NoError(t, err)

	// The one-minute identity was immediately pushed a full duration out.
	assert.True(t, first.ExpiresAt.After(time.Now().Add(50*time.Second)))
}
