package auth

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, salt, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.Len(t, salt, saltLength)
	assert.Len(t, hash, keyLength)
	assert.False(t, bytes.Contains(hash, []byte("hunter2")))
}

func TestHashPassword_DifferentSaltsDifferentHashes(t *testing.T) {
	hash1, salt1, err := HashPassword("same-password")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2, "the same password under different salts must produce different hashes")
}

func TestCheckPassword(t *testing.T) {
	hash, salt, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPassword("correct horse battery staple", salt, hash))
	assert.False(t, CheckPassword("correct horse battery stapler", salt, hash))
	assert.False(t, CheckPassword("", salt, hash))
}

func TestCheckPassword_WrongSaltFails(t *testing.T) {
	hash, _, err := HashPassword("secret")
	require.NoError(t, err)
	_, otherSalt, err := HashPassword("secret")
	require.NoError(t, err)

	assert.False(t, CheckPassword("secret", otherSalt, hash))
}
