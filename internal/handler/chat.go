package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/grocerymate/internal/chat"
	"github.com/dukerupert/grocerymate/internal/completion"
	"github.com/dukerupert/grocerymate/internal/grocery"
	"github.com/dukerupert/grocerymate/internal/model"
)

const maxHistory = 20

type ChatHandler struct {
	assistant *chat.Assistant
	groceries *grocery.Store
	logger    *slog.Logger
}

func NewChatHandler(a *chat.Assistant, gs *grocery.Store, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{assistant: a, groceries: gs, logger: componentLogger(logger, "chat_handler")}
}

type chatRequest struct {
	Message string               `json:"message"`
	History []completion.Message `json:"history"`
	Lang    string               `json:"lang"`
}

// Ask answers one question. The signed-in user's list, when there is one,
// is used for list questions.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(req.History) > maxHistory {
		req.History = req.History[len(req.History)-maxHistory:]
	}

	var items []model.GroceryItem
	if h.groceries != nil {
		var err error
		items, err = h.groceries.Items()
		if err != nil && !errors.Is(err, grocery.ErrNotSignedIn) {
			h.logger.Warn("could not read list for chat", "error", err)
		}
	}

	reply := h.assistant.Ask(r.Context(), req.History, req.Message, items, chat.ParseLang(req.Lang))
	writeJSON(w, http.StatusOK, reply)
}

func (h *ChatHandler) Phrases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chat.PhrasesFor(chat.ParseLang(r.URL.Query().Get("lang"))))
}
