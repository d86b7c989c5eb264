package backup

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ExportBackup streams the current user's snapshot as a download.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Export(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="carlocalendar-backup.json"`)
	rest.WriteJSON(w, http.StatusOK, snapshot)
}

// ImportBackup restores an uploaded snapshot under the current user.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var snapshot Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid backup payload", err.Error())
		return
	}

	if err := h.service.Import(r.Context(), snapshot); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
	default:
		rest.WriteError(w, http.StatusBadRequest, "backup failed", err.Error())
	}
}
