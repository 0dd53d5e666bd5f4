package model

import (
	"errors"
	"strings"
	"time"
)

// System is an external application that access can be delegated to.
type System struct {
	ID        string     `json:"id"         db:"id"`
	Nome      string     `json:"nome"       db:"nome"`
	Sigla     string     `json:"sigla"      db:"sigla"`
	URL       *string    `json:"url"        db:"url"`
	Ativo     bool       `json:"ativo"      db:"ativo"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// SystemSummary decorates a system with whether any role is assigned to it.
// Systems with no roles are still listable but flagged for the admin screen.
type SystemSummary struct {
	System
	HasRoles bool `json:"has_roles" db:"has_roles"`
}

// UpsertSystemRequest creates a system when ID is absent, updates it otherwise.
type UpsertSystemRequest struct {
	ID    *string `json:"id,omitempty"`
	Nome  string  `json:"nome"`
	Sigla string  `json:"sigla"`
	URL   *string `json:"url,omitempty"`
	Ativo *bool   `json:"ativo,omitempty"`
}

// Validate checks required fields and trims free-text values.
func (r *UpsertSystemRequest) Validate() error {
	r.Nome = strings.TrimSpace(r.Nome)
	r.Sigla = strings.TrimSpace(r.Sigla)
	if r.Nome == "" {
		return errors.New("nome is required and cannot be empty")
	}
	if r.Sigla == "" {
		return errors.New("sigla is required and cannot be empty")
	}
	return nil
}
