package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/birthdays/birthdays-go/internal/crypto"
	"github.com/birthdays/birthdays-go/internal/model"
)

// CookieName is the name of the cookie carrying the signed session id.
const CookieName = "birthdays_session"

// DefaultMaxAge is the lifetime of a session, counted from its creation.
const DefaultMaxAge = 30 * 24 * time.Hour

// Config holds session cookie settings.
type Config struct {
	Secret string
	MaxAge time.Duration
	Secure bool
}

// Manager creates, resolves and destroys sessions. It is the only writer of
// session state.
type Manager struct {
	store Store
	cfg   Config
	clock Clock
}

// NewManager creates a Manager over store. A nil clock uses the system clock.
func NewManager(store Store, cfg Config, clock Clock) *Manager {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Manager{store: store, cfg: cfg, clock: clock}
}

// Create starts a session for identity and sets the session cookie on w.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, identity model.Identity) (Session, error) {
	id, err := crypto.NewSessionID()
	if err != nil {
		return Session{}, fmt.Errorf("generating session id: %w", err)
	}

	now := m.clock.Now()
	s := Session{
		ID:        id,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.MaxAge),
	}

	value, err := crypto.SignSessionID(s.ID, m.cfg.Secret, s.ExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("signing session cookie: %w", err)
	}

	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("saving session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.cfg.MaxAge / time.Second),
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return s, nil
}

// Resolve returns the identity of a live session, or ErrSessionNotFound.
func (m *Manager) Resolve(ctx context.Context, id string) (model.Identity, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return model.Identity{}, err
	}
	return s.Identity, nil
}

// FromRequest extracts and verifies the session id carried by r's cookie.
func (m *Manager) FromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrSessionNotFound
	}

	id, err := crypto.ParseSessionID(c.Value, m.cfg.Secret)
	if err != nil {
		return "", ErrSessionNotFound
	}

	return id, nil
}

// Destroy removes the session and clears the cookie. Destroying an unknown
// session is not an error.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, id string) error {
	err := m.store.Delete(ctx, id)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
