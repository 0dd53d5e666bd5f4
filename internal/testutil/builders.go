// Package testutil provides testing utilities and helpers for the access-control services.
package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/gestaocx/acesso-api/internal/domain/model"
)

var builderSeq atomic.Int64

func nextSeq() int64 {
	return builderSeq.Add(1)
}

// UserRequestBuilder provides a fluent interface for building UpsertUserRequest objects for testing.
type UserRequestBuilder struct {
	req *model.UpsertUserRequest
}

// NewUserRequest creates a new UserRequestBuilder with sensible defaults.
// Each builder gets a unique email so tests can create users without
// tripping the uniqueness constraint.
func NewUserRequest() *UserRequestBuilder {
	n := nextSeq()
	nome := fmt.Sprintf("Test User %d", n)
	return &UserRequestBuilder{
		req: &model.UpsertUserRequest{
			Email:        fmt.Sprintf("user%d@example.com", n),
			NomeCompleto: &nome,
		},
	}
}

// WithID targets an existing user for update.
func (b *UserRequestBuilder) WithID(id string) *UserRequestBuilder {
	b.req.ID = &id
	return b
}

// WithEmail sets the email address.
func (b *UserRequestBuilder) WithEmail(email string) *UserRequestBuilder {
	b.req.Email = email
	return b
}

// WithNome sets the full name.
func (b *UserRequestBuilder) WithNome(nome string) *UserRequestBuilder {
	b.req.NomeCompleto = &nome
	return b
}

// WithPassword sets the plaintext password.
func (b *UserRequestBuilder) WithPassword(password string) *UserRequestBuilder {
	b.req.Password = &password
	return b
}

// Inactive marks the account as inactive.
func (b *UserRequestBuilder) Inactive() *UserRequestBuilder {
	inactive := false
	b.req.Ativo = &inactive
	return b
}

// Build returns the constructed request.
func (b *UserRequestBuilder) Build() *model.UpsertUserRequest {
	return b.req
}

// SystemRequestBuilder provides a fluent interface for building UpsertSystemRequest objects for testing.
type SystemRequestBuilder struct {
	req *model.UpsertSystemRequest
}

// NewSystemRequest creates a new SystemRequestBuilder with a unique sigla.
func NewSystemRequest() *SystemRequestBuilder {
	n := nextSeq()
	return &SystemRequestBuilder{
		req: &model.UpsertSystemRequest{
			Nome:  fmt.Sprintf("Test System %d", n),
			Sigla: fmt.Sprintf("TS%d", n),
		},
	}
}

// WithID targets an existing system for update.
func (b *SystemRequestBuilder) WithID(id string) *SystemRequestBuilder {
	b.req.ID = &id
	return b
}

// WithNome sets the display name.
func (b *SystemRequestBuilder) WithNome(nome string) *SystemRequestBuilder {
	b.req.Nome = nome
	return b
}

// WithSigla sets the short code.
func (b *SystemRequestBuilder) WithSigla(sigla string) *SystemRequestBuilder {
	b.req.Sigla = sigla
	return b
}

// WithURL sets the landing URL.
func (b *SystemRequestBuilder) WithURL(url string) *SystemRequestBuilder {
	b.req.URL = &url
	return b
}

// Build returns the constructed request.
func (b *SystemRequestBuilder) Build() *model.UpsertSystemRequest {
	return b.req
}

// RoleRequestBuilder provides a fluent interface for building UpsertRoleRequest objects for testing.
type RoleRequestBuilder struct {
	req *model.UpsertRoleRequest
}

// NewRoleRequest creates a new RoleRequestBuilder with a unique name.
func NewRoleRequest() *RoleRequestBuilder {
	return &RoleRequestBuilder{
		req: &model.UpsertRoleRequest{
			Nome: fmt.Sprintf("Papel %d", nextSeq()),
		},
	}
}

// WithID targets an existing role for update.
func (b *RoleRequestBuilder) WithID(id string) *RoleRequestBuilder {
	b.req.ID = &id
	return b
}

// WithNome sets the role name.
func (b *RoleRequestBuilder) WithNome(nome string) *RoleRequestBuilder {
	b.req.Nome = nome
	return b
}

// ForSystem scopes the role to a system.
func (b *RoleRequestBuilder) ForSystem(sistemaID string) *RoleRequestBuilder {
	b.req.SistemaID = &sistemaID
	return b
}

// Build returns the constructed request.
func (b *RoleRequestBuilder) Build() *model.UpsertRoleRequest {
	return b.req
}

// GrantRequestBuilder provides a fluent interface for building GrantRequest objects for testing.
type GrantRequestBuilder struct {
	req *model.GrantRequest
}

// NewGrantRequest creates a new GrantRequestBuilder that adds an edge.
func NewGrantRequest(usuarioID, papelID, sistemaID string) *GrantRequestBuilder {
	return &GrantRequestBuilder{
		req: &model.GrantRequest{
			Action:    model.GrantActionAdd,
			UsuarioID: usuarioID,
			PapelID:   papelID,
			SistemaID: sistemaID,
		},
	}
}

// Remove switches the request to remove the edge.
func (b *GrantRequestBuilder) Remove() *GrantRequestBuilder {
	b.req.Action = model.GrantActionRemove
	return b
}

// Build returns the constructed request.
func (b *GrantRequestBuilder) Build() *model.GrantRequest {
	return b.req
}
