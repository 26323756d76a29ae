package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/birthdays/birthdays-go/internal/middleware"
	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/service"
	"github.com/birthdays/birthdays-go/internal/session"
)

const (
	msgEmailTaken       = "Email already exists. Try logging in."
	msgInvalidCreds     = "Invalid email or password."
	msgSignInIncomplete = "Account created but sign-in did not complete. Try logging in."
	msgInternal         = "internal server error"
)

// Sessions is the part of the session manager the auth handler drives.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, identity model.Identity) (session.Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, id string) error
}

// AuthHandler handles HTTP requests for authentication and sessions.
type AuthHandler struct {
	service  *service.AuthService
	sessions Sessions
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions, logger: logger}
}

// HandleRegister handles POST /api/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusForbidden, errorResponse(msgEmailTaken))
		default:
			h.logger.ErrorContext(r.Context(), "registering user", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		}
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, identity); err != nil {
		h.logger.ErrorContext(r.Context(), "creating session after registration", "user_id", identity.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgSignInIncomplete))
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", "user_id", identity.ID)
	writeJSON(w, http.StatusCreated, identity)
}

// HandleLogin handles POST /api/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse(msgInvalidCreds))
		default:
			h.logger.ErrorContext(r.Context(), "logging in", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		}
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, identity); err != nil {
		h.logger.ErrorContext(r.Context(), "creating session", "user_id", identity.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		return
	}

	writeJSON(w, http.StatusCreated, identity)
}

// HandleGetSession handles GET /api/sessions requests.
func (h *AuthHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
		return
	}

	current, err := h.service.Identity(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserGone) {
			// The account was removed after the session began.
			if id, ok := middleware.SessionIDFromContext(r.Context()); ok {
				if err := h.sessions.Destroy(r.Context(), w, id); err != nil {
					h.logger.ErrorContext(r.Context(), "destroying orphaned session", "error", err)
				}
			}
			writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
			return
		}
		h.logger.ErrorContext(r.Context(), "loading session user", "user_id", identity.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		return
	}

	writeJSON(w, http.StatusOK, current)
}

// HandleDeleteSession handles DELETE /api/sessions requests.
func (h *AuthHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
		return
	}

	if err := h.sessions.Destroy(r.Context(), w, id); err != nil {
		h.logger.ErrorContext(r.Context(), "destroying session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		return
	}

	w.WriteHeader(http.StatusOK)
}
