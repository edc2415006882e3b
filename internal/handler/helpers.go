// Package handler exposes the stores as JSON endpoints for the presentation
// layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocerymate/internal/account"
	"github.com/dukerupert/grocerymate/internal/grocery"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, grocery.ErrEmptyName),
		errors.Is(err, grocery.ErrInvalidCategory),
		errors.Is(err, grocery.ErrInvalidPrice),
		errors.Is(err, grocery.ErrUnrecognizedItem),
		errors.Is(err, grocery.ErrCannotFriendSelf),
		errors.Is(err, account.ErrUsernameTooShort),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrPasswordTooShort),
		errors.Is(err, account.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, grocery.ErrNotSignedIn),
		errors.Is(err, account.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, grocery.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrDuplicateEmail),
		errors.Is(err, account.ErrDuplicateUsername),
		errors.Is(err, grocery.ErrAlreadyFriends):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeStoreError reports err to the client. Unexpected errors are logged
// and hidden behind fallback.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, "error", err)
		writeError(w, status, fallback)
		return
	}
	writeError(w, status, err.Error())
}

func componentLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}
