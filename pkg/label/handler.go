package label

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Handler struct {
	service *Service
}

type LabelDTO struct {
	ID         string `json:"id"`
	CalendarID string `json:"calendarId"`
	Name       string `json:"name"`
	Code       int    `json:"code"`
	Color      string `json:"color"`
	Visible    bool   `json:"visible"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.service.List(r.Context(), mux.Vars(r)["calendarId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]LabelDTO, 0, len(labels))
	for _, l := range labels {
		dtos = append(dtos, labelToDTO(l))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	var dto LabelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid label payload", err.Error())
		return
	}
	dto.CalendarID = mux.Vars(r)["calendarId"]

	created, err := h.service.Create(r.Context(), dtoToLabel(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, labelToDTO(created))
}

func (h *Handler) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	var dto LabelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid label payload", err.Error())
		return
	}
	dto.ID = mux.Vars(r)["labelId"]

	updated, err := h.service.Update(r.Context(), dtoToLabel(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, labelToDTO(updated))
}

func (h *Handler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["labelId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func labelToDTO(l Label) LabelDTO {
	return LabelDTO(l)
}

func dtoToLabel(dto LabelDTO) Label {
	return Label(dto)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
	case errors.Is(err, calendar.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "insufficient permissions", "")
	case errors.Is(err, calendar.ErrCalendarNotFound):
		rest.WriteError(w, http.StatusNotFound, "calendar not found", "")
	case errors.Is(err, ErrLabelNotFound):
		rest.WriteError(w, http.StatusNotFound, "label not found", "")
	default:
		rest.WriteError(w, http.StatusBadRequest, "invalid label", err.Error())
	}
}
