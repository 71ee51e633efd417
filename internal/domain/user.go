package domain

import "strings"

// User is an account that can authenticate against the API.
// The password hash and salt never appear in serialized output.
type User struct {
	ID           int64  `json:"-"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	PasswordSalt []byte `json:"-"`
	IsAdmin      bool   `json:"is_admin"`
}

// NewUser builds a user for registration. Emails are stored lowercase.
func NewUser(email string, passwordHash, passwordSalt []byte, isAdmin bool) *User {
	return &User{
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		IsAdmin:      isAdmin,
	}
}
