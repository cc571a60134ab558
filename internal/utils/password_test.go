package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same input")
	require.NoError(t, err)
	h2, err := HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	// Accounts created before the argon2 migration still carry bcrypt hashes
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy secret"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := VerifyPassword("legacy secret", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = VerifyPassword("not it", string(legacy))
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("anything", "not-a-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}
