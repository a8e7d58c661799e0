// Package respond maps service errors onto HTTP statuses.
package respond

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mold-tracker/internal/service/tracker"
	"mold-tracker/internal/storage"
)

// Error writes the status that matches err. Client errors carry the
// validation message, everything else is logged and hidden behind a 500.
func Error(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrTaskNotFound),
		errors.Is(err, storage.ErrOperationNotFound):
		http.Error(w, message(err, storage.ErrNotFound, storage.ErrTaskNotFound, storage.ErrOperationNotFound), http.StatusNotFound)
	case errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, tracker.ErrInvalidStatus):
		http.Error(w, message(err, tracker.ErrInvalidInput, tracker.ErrInvalidStatus), http.StatusBadRequest)
	case errors.Is(err, tracker.ErrForbidden):
		http.Error(w, message(err, tracker.ErrForbidden), http.StatusForbidden)
	case errors.Is(err, tracker.ErrDuplicateUsername),
		errors.Is(err, storage.ErrConflict):
		http.Error(w, message(err, tracker.ErrDuplicateUsername, storage.ErrConflict), http.StatusConflict)
	case errors.Is(err, context.DeadlineExceeded):
		log.Error("request timed out", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Request timed out", http.StatusGatewayTimeout)
	default:
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// message drops the "pkg.Func: " prefixes in front of the first sentinel.
func message(err error, sentinels ...error) string {
	msg := err.Error()
	start := -1
	for _, s := range sentinels {
		if i := strings.Index(msg, s.Error()); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start < 0 {
		return msg
	}
	return msg[start:]
}
