package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocerymate/internal/backup"
)

type BackupHandler struct {
	manager *backup.Manager
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, logger: componentLogger(logger, "backup_handler")}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	objects, err := h.manager.List(r.Context())
	if errors.Is(err, backup.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to list backups", "error", err)
		writeError(w, http.StatusBadGateway, "failed to list backups")
		return
	}
	if objects == nil {
		objects = []backup.Object{}
	}
	writeJSON(w, http.StatusOK, objects)
}

// Run takes a backup now, with the passphrase from the body or the
// configured one.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	obj, err := h.manager.Run(r.Context(), req.Passphrase)
	switch {
	case errors.Is(err, backup.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, backup.ErrNoPassphrase):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("backup failed", "error", err)
		writeError(w, http.StatusBadGateway, "backup failed")
	default:
		writeJSON(w, http.StatusCreated, obj)
	}
}
