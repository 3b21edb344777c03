package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/holadocker/usuarios/internal/handler/dto"
	"github.com/holadocker/usuarios/internal/middleware"
	"github.com/holadocker/usuarios/internal/model"
	"github.com/holadocker/usuarios/internal/repository"
)

// UsersLister reads the usuarios table.
type UsersLister interface {
	ListUsers(ctx context.Context) (model.Rows, error)
}

// UsersHandler serves the usuarios listing.
type UsersHandler struct {
	users  UsersLister
	logger *slog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users UsersLister, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// List returns every usuarios row as a JSON array of arrays.
// GET /usuarios
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.handleRepositoryError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// handleRepositoryError maps the repository error kinds to status codes.
// Driver messages are logged, never returned.
func (h *UsersHandler) handleRepositoryError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, repository.ErrConnectionFailure):
		h.logger.Error("database_unavailable", "error", err, "request_id", requestID)
		writeError(w, http.StatusServiceUnavailable, dto.CodeDatabaseUnavailable, "Database unavailable")
	case errors.Is(err, repository.ErrQueryFailure):
		h.logger.Error("query_failed", "error", err, "request_id", requestID)
		writeError(w, http.StatusInternalServerError, dto.CodeQueryFailed, "Query failed")
	default:
		h.logger.Error("internal_error", "error", err, "request_id", requestID)
		writeError(w, http.StatusInternalServerError, dto.CodeInternalError, "An internal error occurred")
	}
}
