// Package model contains the access-control data model: users, systems,
// roles (papéis) and permission edges, plus request validation.
package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// emailPattern is intentionally permissive; the store is the source of truth
// for uniqueness and the identity provider validates deliverability.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MinPasswordLength is enforced before hashing, at the API boundary.
const MinPasswordLength = 8

// User is a credential-store record. SenhaHash mirrors the legacy column name;
// it is never serialized to clients.
type User struct {
	ID           string     `json:"id"            db:"id"`
	Email        string     `json:"email"         db:"email"`
	NomeCompleto *string    `json:"nome_completo" db:"nome_completo"`
	SenhaHash    *string    `json:"-"             db:"senha_hash"`
	Ativo        bool       `json:"ativo"         db:"ativo"`
	CreatedAt    time.Time  `json:"created_at"    db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"    db:"updated_at"`
}

// HasPassword reports whether the user has a stored credential hash.
func (u *User) HasPassword() bool {
	return u.SenhaHash != nil && strings.TrimSpace(*u.SenhaHash) != ""
}

// UpsertUserRequest creates a user when ID is absent, updates it otherwise.
// Password, when present, is hashed server-side; clients never submit hashes.
type UpsertUserRequest struct {
	ID           *string `json:"id,omitempty"`
	NomeCompleto *string `json:"nome_completo,omitempty"`
	Email        string  `json:"email"`
	Ativo        *bool   `json:"ativo,omitempty"`
	Password     *string `json:"password,omitempty"`
}

// Validate checks required fields and normalizes the email to lower case.
func (r *UpsertUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !emailPattern.MatchString(r.Email) {
		return errors.New("email must be a valid address")
	}
	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidEmail reports whether the given string looks like an email address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}
