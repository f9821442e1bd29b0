package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a storable digest from a password. The username is
// concatenated after the password before hashing, matching the verify
// contract; bcrypt additionally applies its own per-record random salt and
// compares in constant time.
func HashPassword(password, username string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password+username), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether the candidate password belongs to the
// user that produced digest.
func VerifyPassword(digest, password, username string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password+username)) == nil
}
