// Package cryptoutil implements password hashing and temporary-password
// generation for the credential store. New hashes use bcrypt with a per-hash
// salt; legacy unsalted SHA-256 hex digests are still verified so accounts
// migrated from the previous system keep working until their first login
// upgrades them.
package cryptoutil

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// tempPasswordLength matches the bootstrap behavior of the previous system.
const tempPasswordLength = 10

// tempPasswordAlphabet is the fixed charset for generated temporary passwords.
const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// HashPassword derives a bcrypt hash from the plaintext password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash, and
// whether the stored hash uses the legacy SHA-256 scheme (so callers can
// upgrade it).
func VerifyPassword(stored, password string) (ok, legacy bool) {
	if IsLegacyHash(stored) {
		digest := sha256.Sum256([]byte(password))
		want := hex.EncodeToString(digest[:])
		return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(stored))) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
}

// IsLegacyHash reports whether the stored value is a bare SHA-256 hex digest.
func IsLegacyHash(stored string) bool {
	if len(stored) != hex.EncodedLen(sha256.Size) {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}

// GenerateTempPassword returns a 10-character password drawn from a fixed
// alphanumeric charset using a cryptographically strong source.
func GenerateTempPassword() (string, error) {
	var b strings.Builder
	b.Grow(tempPasswordLength)
	maxIdx := big.NewInt(int64(len(tempPasswordAlphabet)))
	for range tempPasswordLength {
		n, err := rand.Int(rand.Reader, maxIdx)
		if err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		b.WriteByte(tempPasswordAlphabet[n.Int64()])
	}
	return b.String(), nil
}
