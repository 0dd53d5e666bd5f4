package model

import (
	"errors"
	"strings"
	"time"
)

// Grant is a single permission edge: user holds role within system.
// The store enforces at-most-once per (usuario, papel, sistema) triple.
type Grant struct {
	ID        string    `json:"id"         db:"id"`
	UsuarioID string    `json:"usuario_id" db:"usuario_id"`
	PapelID   string    `json:"papel_id"   db:"papel_id"`
	SistemaID string    `json:"sistema_id" db:"sistema_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// GrantDetail is a grant joined with role and system display names,
// used when answering "what can user U do in system S".
type GrantDetail struct {
	UsuarioID   string `json:"usuario_id"   db:"usuario_id"`
	PapelID     string `json:"papel_id"     db:"papel_id"`
	PapelNome   string `json:"papel_nome"   db:"papel_nome"`
	SistemaID   string `json:"sistema_id"   db:"sistema_id"`
	SistemaNome string `json:"sistema_nome" db:"sistema_nome"`
}

// Grant edge actions accepted by the admin toggle endpoint.
const (
	GrantActionAdd    = "add"
	GrantActionRemove = "remove"
)

// GrantRequest toggles a permission edge.
type GrantRequest struct {
	Action    string `json:"action"`
	UsuarioID string `json:"usuario_id"`
	PapelID   string `json:"papel_id"`
	SistemaID string `json:"sistema_id"`
}

// Validate checks that all edge coordinates and a known action are present.
func (r *GrantRequest) Validate() error {
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	if r.Action != GrantActionAdd && r.Action != GrantActionRemove {
		return errors.New("action must be one of: add, remove")
	}
	if strings.TrimSpace(r.UsuarioID) == "" {
		return errors.New("usuario_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.PapelID) == "" {
		return errors.New("papel_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.SistemaID) == "" {
		return errors.New("sistema_id is required and cannot be empty")
	}
	return nil
}

// AccessSnapshot is the aggregated admin-screen payload.
type AccessSnapshot struct {
	Users     []*User   `json:"users"`
	Systems   []*System `json:"systems"`
	Roles     []*Role   `json:"roles"`
	UserRoles []*Grant  `json:"userRoles"`
}
