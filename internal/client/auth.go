package client

import (
	"context"
	"errors"
	"sync"

	"github.com/birthdays/birthdays-go/internal/model"
)

// Auth caches whether the client is signed in and as whom. The cache is
// filled from the session endpoint at load and kept current by the auth
// calls made through it.
type Auth struct {
	client *Client

	mu       sync.RWMutex
	loggedIn bool
	user     model.Identity
}

// NewAuth queries the current session once and returns the populated cache.
func NewAuth(ctx context.Context, c *Client) (*Auth, error) {
	a := &Auth{client: c}
	if err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// LoggedIn reports whether the cached state is signed in.
func (a *Auth) LoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loggedIn
}

// User returns the cached identity.
func (a *Auth) User() (model.Identity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user, a.loggedIn
}

// Refresh re-reads the session. A 401 clears the cache without error.
func (a *Auth) Refresh(ctx context.Context) error {
	identity, err := a.client.Session(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			a.set(model.Identity{}, false)
			return nil
		}
		return err
	}
	a.set(identity, true)
	return nil
}

// Login signs in and caches the returned identity.
func (a *Auth) Login(ctx context.Context, username, password string) (model.Identity, error) {
	identity, err := a.client.Login(ctx, username, password)
	if err != nil {
		return model.Identity{}, err
	}
	a.set(identity, true)
	return identity, nil
}

// Register creates an account and caches the returned identity.
func (a *Auth) Register(ctx context.Context, username, password string) (model.Identity, error) {
	identity, err := a.client.Register(ctx, username, password)
	if err != nil {
		return model.Identity{}, err
	}
	a.set(identity, true)
	return identity, nil
}

// Logout ends the session and clears the cache. An already expired session
// counts as logged out.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil && !errors.Is(err, ErrNotAuthenticated) {
		return err
	}
	a.set(model.Identity{}, false)
	return nil
}

func (a *Auth) set(identity model.Identity, loggedIn bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = identity
	a.loggedIn = loggedIn
}
