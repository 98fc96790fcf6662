package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipebox/recipe-api/internal/api/httpx"
	"github.com/recipebox/recipe-api/internal/api/validate"
	"github.com/recipebox/recipe-api/internal/middleware"
	"github.com/recipebox/recipe-api/internal/models"
)

// writeDomainError maps service errors onto the HTTP taxonomy. Not-found
// and not-owned are the same 404; credential failures stay generic.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errs
	switch {
	case errors.Is(err, models.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, models.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "unable to authenticate with provided credentials", nil)
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrNameTaken):
		httpx.WriteError(w, http.StatusBadRequest, "conflict", err.Error(), nil)
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, "validation", "invalid input", verrs)
	case models.IsValidation(err):
		httpx.WriteError(w, http.StatusBadRequest, "validation", err.Error(), nil)
	default:
		slog.Error("request failed",
			"err", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, "bad_request", msg, nil)
}
