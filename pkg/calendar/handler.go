package calendar

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Handler struct {
	service *Service
}

type CalendarDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Prioritized bool   `json:"prioritized"`
	Visible     bool   `json:"visible"`
	Role        string `json:"role,omitempty"`
}

type visibilityDTO struct {
	Visible bool `json:"visible"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]CalendarDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, viewToDTO(v))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid calendar payload", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), Calendar{Name: dto.Name, Prioritized: dto.Prioritized})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, viewToDTO(View{Calendar: created, Role: RoleOwner, Visible: created.Visible}))
}

func (h *Handler) UpdateCalendar(w http.ResponseWriter, r *http.Request) {
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid calendar payload", err.Error())
		return
	}
	dto.ID = mux.Vars(r)["calendarId"]

	updated, err := h.service.Update(r.Context(), Calendar{
		ID:          dto.ID,
		Name:        dto.Name,
		Prioritized: dto.Prioritized,
		Visible:     dto.Visible,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, viewToDTO(View{Calendar: updated, Role: RoleOwner, Visible: updated.Visible}))
}

func (h *Handler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["calendarId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var dto visibilityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid visibility payload", err.Error())
		return
	}

	if err := h.service.SetVisibility(r.Context(), mux.Vars(r)["calendarId"], dto.Visible); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unshare(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.Unshare(r.Context(), vars["calendarId"], vars["userUid"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func viewToDTO(v View) CalendarDTO {
	return CalendarDTO{
		ID:          v.ID,
		Name:        v.Name,
		Prioritized: v.Prioritized,
		Visible:     v.Visible,
		Role:        string(v.Role),
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
	case errors.Is(err, ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "insufficient permissions", "")
	case errors.Is(err, ErrCalendarNotFound):
		rest.WriteError(w, http.StatusNotFound, "calendar not found", "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
