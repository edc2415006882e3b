package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocerymate/internal/account"
)

type AuthHandler struct {
	accounts *account.Store
	logger   *slog.Logger
}

func NewAuthHandler(accounts *account.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: componentLogger(logger, "auth_handler")}
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create account")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to sign in")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		writeStoreError(w, h.logger, err, "failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user, or a null user when nobody is signed in.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": h.accounts.CurrentUser()})
}

func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.accounts.AllUsers())
}
