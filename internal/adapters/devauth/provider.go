// Package devauth is the AuthProvider used when AUTH_MODE=mock: it skips
// the identity provider entirely and logs in a fixed local identity.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
	"github.com/gestaocx/acesso-api/internal/ports"
)

const defaultSessionDuration = 8 * time.Hour

// Config describes the single identity the provider hands out. UserID and
// Email are required; the rest may be empty.
type Config struct {
	UserID          string
	Nome            string
	Email           string
	Groups          []string
	SessionDuration time.Duration
}

// Provider short-circuits the OAuth dance: Begin points straight back at
// our own callback and Exchange returns the configured identity without
// talking to anyone.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
}

func NewProvider(cfg Config) (*Provider, error) {
	switch {
	case cfg.UserID == "":
		return nil, errors.New("dev auth: UserID is required")
	case cfg.Email == "":
		return nil, errors.New("dev auth: Email is required")
	}

	dur := cfg.SessionDuration
	if dur == 0 {
		dur = defaultSessionDuration
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			Nome:      cfg.Nome,
			Email:     cfg.Email,
			Groups:    append([]string(nil), cfg.Groups...),
			ExpiresAt: time.Now().Add(dur),
		},
		sessionDuration: dur,
	}, nil
}

// Begin issues fresh state and nonce and sends the browser directly to
// GET /auth/callback?code=dev&state=..., the same surface real logins use.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomToken(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	return "/auth/callback?code=dev&state=" + state, state, nonce, nil
}

// Exchange returns the configured identity. The state check happened in
// the handler; the code is ignored. Expiry slides forward so a long dev
// session never lapses mid-use.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	if time.Until(p.identity.ExpiresAt) < 5*time.Minute {
		p.identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return p.identity, nil
}

// randomToken returns exactly n URL-safe base64 characters of entropy.
func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	buf := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(buf)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
