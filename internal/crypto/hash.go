package crypto

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor used for every new password hash.
const HashCost = 10

// dummyHash is compared against when no stored hash exists, so that a login for
// an unknown email costs the same as one with a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("birthdays"), HashCost)
	return hash
})

// HashPassword hashes a password with bcrypt at HashCost.
// The salt is random and embedded in the returned digest.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt digest.
// A malformed digest is treated as a mismatch.
func VerifyPassword(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	return err == nil
}

// BurnComparison performs a bcrypt comparison whose result is discarded.
func BurnComparison(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}
