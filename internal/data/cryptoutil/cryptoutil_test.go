package cryptoutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, legacy := VerifyPassword(hash, "correct horse battery")
	assert.True(t, ok)
	assert.False(t, legacy)

	ok, _ = VerifyPassword(hash, "wrong password")
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same input")
	require.NoError(t, err)
	b, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_LegacyDigest(t *testing.T) {
	stored := sha256Hex("senha-antiga")

	ok, legacy := VerifyPassword(stored, "senha-antiga")
	assert.True(t, ok)
	assert.True(t, legacy)

	ok, legacy = VerifyPassword(stored, "outra-senha")
	assert.False(t, ok)
	assert.True(t, legacy)
}

func TestVerifyPassword_LegacyDigestUppercase(t *testing.T) {
	stored := strings.ToUpper(sha256Hex("senha-antiga"))

	ok, legacy := VerifyPassword(stored, "senha-antiga")
	assert.True(t, ok)
	assert.True(t, legacy)
}

func TestIsLegacyHash(t *testing.T) {
	assert.True(t, IsLegacyHash(sha256Hex("anything")))
	assert.False(t, IsLegacyHash(""))
	assert.False(t, IsLegacyHash("$2a$10$abcdefghijklmnopqrstuv"))
	// Right length, not hex.
	assert.False(t, IsLegacyHash(strings.Repeat("z", 64)))
	// Hex but wrong length.
	assert.False(t, IsLegacyHash("deadbeef"))
}

func TestGenerateTempPassword(t *testing.T) {
	seen := make(map[string]bool)
	for range 20 {
		pw, err := GenerateTempPassword()
		require.NoError(t, err)
		assert.Len(t, pw, tempPasswordLength)
		for _, c := range pw {
			assert.Contains(t, tempPasswordAlphabet, string(c))
		}
		seen[pw] = true
	}
	// 20 draws from a 58-char alphabet colliding would mean a broken source.
	assert.Greater(t, len(seen), 1)
}
