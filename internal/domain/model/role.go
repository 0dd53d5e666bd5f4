package model

import (
	"errors"
	"strings"
	"time"
)

// Role (papel) is a named permission bucket, optionally scoped to a system.
// Names are free text and deliberately not unique across systems.
type Role struct {
	ID        string     `json:"id"         db:"id"`
	Nome      string     `json:"nome"       db:"nome"`
	SistemaID *string    `json:"sistema_id" db:"sistema_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertRoleRequest creates a role when ID is absent, updates it otherwise.
type UpsertRoleRequest struct {
	ID        *string `json:"id,omitempty"`
	Nome      string  `json:"nome"`
	SistemaID *string `json:"sistema_id,omitempty"`
}

// Validate checks required fields.
func (r *UpsertRoleRequest) Validate() error {
	r.Nome = strings.TrimSpace(r.Nome)
	if r.Nome == "" {
		return errors.New("nome is required and cannot be empty")
	}
	return nil
}
