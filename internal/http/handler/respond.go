package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"newt/internal/feed"
	"newt/internal/reading"
	"newt/internal/summary"
	"newt/internal/user"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"detail": msg})
}

// mapError translates package sentinel errors into transport responses.
// Deadline failures are retryable and say so; everything unexpected is a 500.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, reading.ErrUserNotFound),
		errors.Is(err, reading.ErrSummaryNotFound),
		errors.Is(err, summary.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, user.ErrSelfFollow):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrAlreadyFollowing),
		errors.Is(err, user.ErrNotFollowing),
		errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, feed.ErrEmbedUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "storage timeout, retry")
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
