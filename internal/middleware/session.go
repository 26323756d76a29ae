package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/session"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	sessionIDKey contextKey = "sessionID"
)

// NotAuthenticated is the error message of every 401 response.
const NotAuthenticated = "Not authenticated."

// SessionResolver is the part of the session manager the guard needs.
type SessionResolver interface {
	FromRequest(r *http.Request) (string, error)
	Resolve(ctx context.Context, id string) (model.Identity, error)
}

// RequireSession returns middleware that rejects requests without a live session
// and attaches the session's identity to the request context.
func RequireSession(sessions SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.FromRequest(r)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, NotAuthenticated)
				return
			}

			identity, err := sessions.Resolve(r.Context(), id)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					logger.ErrorContext(r.Context(), "resolving session", "error", err)
				}
				writeJSONError(w, http.StatusUnauthorized, NotAuthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			ctx = context.WithValue(ctx, sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

// SessionIDFromContext extracts the resolved session id from the request context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
