package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocerymate/internal/grocery"
	"github.com/dukerupert/grocerymate/internal/model"
)

type FriendHandler struct {
	groceries *grocery.Store
	logger    *slog.Logger
}

func NewFriendHandler(gs *grocery.Store, logger *slog.Logger) *FriendHandler {
	return &FriendHandler{groceries: gs, logger: componentLogger(logger, "friend_handler")}
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	friends, err := h.groceries.Friends()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list friends")
		return
	}
	if friends == nil {
		friends = []model.Friend{}
	}
	writeJSON(w, http.StatusOK, friends)
}

// Add accepts any of id, username or email identifying a directory user.
func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.Friend
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" && req.Username == "" && req.Email == "" {
		writeError(w, http.StatusBadRequest, "id, username or email is required")
		return
	}

	friend, err := h.groceries.AddFriend(r.Context(), req)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to add friend")
		return
	}
	writeJSON(w, http.StatusCreated, friend)
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	friend, err := h.groceries.RemoveFriend(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to remove friend")
		return
	}
	if friend == nil {
		writeError(w, http.StatusNotFound, "friend not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
