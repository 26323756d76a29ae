// Package session maps opaque session identifiers to authenticated identities.
// The Manager owns the session lifecycle and the cookie that carries the
// identifier; a Store keeps the mapping, in process memory or in Redis.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/birthdays/birthdays-go/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-held state for one authenticated client.
type Session struct {
	ID        string         `json:"id"`
	Identity  model.Identity `json:"identity"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by id. Get returns ErrSessionNotFound for missing or
// expired sessions; Delete is idempotent.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Clock provides time operations that can be replaced in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
