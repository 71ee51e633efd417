package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Changing them invalidates stored hashes.
const (
	saltLength   = 16
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLength    = 32
)

// HashPassword derives a one-way hash of the password under a fresh random
// salt. Both values are stored; the plaintext never is.
func HashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("auth: failed to generate salt: %w", err)
	}
	return hashWithSalt(password, salt), salt, nil
}

// CheckPassword reports whether the submitted password, hashed under the
// stored salt, matches the stored hash. Comparison is constant-time.
func CheckPassword(password string, salt, hash []byte) bool {
	candidate := hashWithSalt(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

func hashWithSalt(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLength)
}
