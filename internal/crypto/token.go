package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	tokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// SessionIDLength gives log2(62^43) ≈ 256 bits of entropy.
	SessionIDLength = 43

	// MinTokenLength is the shortest token RandomToken will produce.
	MinTokenLength = 22
)

// ErrTokenTooShort is returned by RandomToken for lengths below MinTokenLength.
var ErrTokenTooShort = errors.New("token length must be at least 22")

// NewSessionID returns a fresh, unguessable session identifier.
func NewSessionID() (string, error) {
	return RandomToken(SessionIDLength)
}

// RandomToken returns an alphanumeric string of the given length drawn from crypto/rand.
func RandomToken(length int) (string, error) {
	if length < MinTokenLength {
		return "", ErrTokenTooShort
	}

	result := make([]byte, length)
	for i := range result {
		ch, err := randChar(tokenChars)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
