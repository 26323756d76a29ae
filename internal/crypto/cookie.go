package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCookie = errors.New("invalid or expired session cookie")
)

const (
	cookieIssuer   = "birthdays"
	cookieAudience = "birthdays-session"
)

// SessionClaims is the signed payload carried by the session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// SignSessionID signs a session identifier with the server secret so that the
// cookie value cannot be forged or altered by the client.
func SignSessionID(sessionID, secret string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cookieIssuer,
			Audience:  jwt.ClaimStrings{cookieAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionID verifies a signed cookie value and returns the session identifier.
func ParseSessionID(value, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(cookieIssuer), jwt.WithAudience(cookieAudience))
	if err != nil {
		return "", ErrInvalidCookie
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}

	return claims.SessionID, nil
}
