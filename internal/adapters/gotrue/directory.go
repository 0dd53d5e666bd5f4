package gotrue

// Package gotrue implements the IdentityDirectory port against a
// GoTrue-compatible identity provider's admin REST surface. The service key
// authorizes admin calls; the anon key is sent as the apikey header.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gestaocx/acesso-api/internal/ports"
)

// Config holds connection settings for the identity provider admin API.
type Config struct {
	BaseURL    string // e.g. https://auth.example.com
	AnonKey    string
	ServiceKey string
	HTTPClient *http.Client // optional, defaults to a 15s-timeout client
}

// Client talks to the provider's /admin/users and /magiclink endpoints.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// NewClient validates the config and returns a directory client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("directory base URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("directory service key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		httpClient: httpClient,
	}, nil
}

type accountPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type listUsersResponse struct {
	Users []accountPayload `json:"users"`
}

// FindByEmail looks up a provider account by email. The admin list endpoint
// filters server-side, but matching is still confirmed locally because the
// filter matches substrings.
func (c *Client) FindByEmail(ctx context.Context, email string) (ports.DirectoryAccount, error) {
	q := url.Values{}
	q.Set("filter", email)
	q.Set("per_page", "50")

	var resp listUsersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users?"+q.Encode(), nil, &resp); err != nil {
		return ports.DirectoryAccount{}, err
	}
	for _, u := range resp.Users {
		if strings.EqualFold(u.Email, email) {
			return ports.DirectoryAccount{ID: u.ID, Email: u.Email}, nil
		}
	}
	return ports.DirectoryAccount{}, ports.ErrAccountNotFound
}

// Create provisions a confirmed provider account with the given password.
func (c *Client) Create(ctx context.Context, email, password string) (ports.DirectoryAccount, error) {
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}
	var resp accountPayload
	if err := c.do(ctx, http.MethodPost, "/admin/users", body, &resp); err != nil {
		return ports.DirectoryAccount{}, err
	}
	return ports.DirectoryAccount{ID: resp.ID, Email: resp.Email}, nil
}

// SetPassword overwrites the provider account password.
func (c *Client) SetPassword(ctx context.Context, accountID, password string) error {
	body := map[string]any{"password": password}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(accountID), body, nil)
}

// SendMagicLink asks the provider to email a one-time login URL.
func (c *Client) SendMagicLink(ctx context.Context, email, redirectTo string) error {
	path := "/magiclink"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	body := map[string]any{"email": email}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.ErrAccountNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("directory %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
			return fmt.Errorf("decode response: %w", decodeErr)
		}
	}
	return nil
}
