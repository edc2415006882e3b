package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/grocerymate/internal/auth"
	"github.com/dukerupert/grocerymate/internal/model"
)

// IdentitySource reports who is signed in on this device.
type IdentitySource interface {
	CurrentUser() *model.CurrentUser
}

// LoadUser attaches the signed-in user, if any, to the request context.
func LoadUser(src IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := src.CurrentUser(); u != nil && u.IsLoggedIn {
				r = r.WithContext(auth.WithUser(r.Context(), *u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests without a signed-in user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsSignedIn(r.Context()) {
			writeError(w, http.StatusUnauthorized, "You must be signed in")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
