package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocerymate/internal/local"
	"github.com/dukerupert/grocerymate/internal/model"
)

type LogHandler struct {
	local  *local.Adapter
	logger *slog.Logger
}

func NewLogHandler(adapter *local.Adapter, logger *slog.Logger) *LogHandler {
	return &LogHandler{local: adapter, logger: componentLogger(logger, "log_handler")}
}

// List returns the recorded backend calls, oldest first.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.local.APILogs()
	if err != nil {
		h.logger.Error("failed to read api logs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read api logs")
		return
	}
	if entries == nil {
		entries = []model.APILogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
