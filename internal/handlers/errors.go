package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taskvault/taskvault-api/internal/middleware"
	"github.com/taskvault/taskvault-api/internal/services"
	"github.com/taskvault/taskvault-api/internal/utils"
)

// writeError maps service errors onto status codes. Anything outside the
// taxonomy is logged and answered with a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.WriteValidationError(w, vErr.Error(), map[string]string{vErr.Field: vErr.Message})
	case errors.Is(err, services.ErrUnauthenticated):
		middleware.WriteUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, services.ErrForbidden):
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "Not enough permissions")
	case errors.Is(err, services.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Resource not found")
	case errors.Is(err, services.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "Email already registered")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"request_id", utils.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

// pathID parses the {id} wildcard
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &services.ValidationError{Field: "id", Message: "must be an integer"}
	}
	return id, nil
}
