package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/birthdays/birthdays-go/internal/middleware"
	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/service"
)

const msgCreateFailed = "Impossible to create the birthday."

// BirthdayHandler handles HTTP requests for the birthday collection.
type BirthdayHandler struct {
	service *service.BirthdayService
	logger  *slog.Logger
}

// NewBirthdayHandler creates a new BirthdayHandler.
func NewBirthdayHandler(svc *service.BirthdayService, logger *slog.Logger) *BirthdayHandler {
	return &BirthdayHandler{service: svc, logger: logger}
}

// HandleList handles GET /api/data requests.
func (h *BirthdayHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
		return
	}

	birthdays, err := h.service.List(r.Context(), identity.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing birthdays", "user_id", identity.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		return
	}

	writeJSON(w, http.StatusOK, birthdays)
}

// HandleCreate handles POST /api/data requests.
func (h *BirthdayHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
		return
	}

	var req model.BirthdayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), identity.ID, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse(verr.Error()))
			return
		}
		h.logger.ErrorContext(r.Context(), "creating birthday", "user_id", identity.ID, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(msgCreateFailed))
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// HandleUpdate handles PATCH /api/data/{id} requests.
func (h *BirthdayHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
		return
	}

	id, ok := birthdayID(w, r)
	if !ok {
		return
	}

	var patch model.BirthdayPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	b, err := h.service.Update(r.Context(), identity.ID, id, patch)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, errorResponse(verr.Error()))
		case errors.Is(err, service.ErrBirthdayNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(notFoundMessage(id)))
		default:
			h.logger.ErrorContext(r.Context(), "updating birthday", "user_id", identity.ID, "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		}
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// HandleDelete handles DELETE /api/data/{id} requests.
func (h *BirthdayHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(middleware.NotAuthenticated))
		return
	}

	id, ok := birthdayID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.ID, id); err != nil {
		if errors.Is(err, service.ErrBirthdayNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(notFoundMessage(id)))
			return
		}
		h.logger.ErrorContext(r.Context(), "deleting birthday", "user_id", identity.ID, "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgInternal))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func birthdayID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid id"))
		return 0, false
	}
	return id, true
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Person with id: %d not found.", id)
}
