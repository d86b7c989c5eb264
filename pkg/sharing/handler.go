package sharing

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Handler struct {
	service *Service
}

type InvitationDTO struct {
	ID          string `json:"id"`
	CalendarID  string `json:"calendarId"`
	TargetEmail string `json:"targetEmail"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type inviteRequest struct {
	TargetEmail string `json:"targetEmail"`
	Role        string `json:"role"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid invitation payload", err.Error())
		return
	}

	inv, err := h.service.Invite(r.Context(), mux.Vars(r)["calendarId"], req.TargetEmail, calendar.Role(req.Role))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, invitationToDTO(inv))
}

func (h *Handler) ListCalendarInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.service.ListForCalendar(r.Context(), mux.Vars(r)["calendarId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, invitationsToDTO(invitations))
}

func (h *Handler) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.service.ListForCurrentUser(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, invitationsToDTO(invitations))
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Accept(r.Context(), mux.Vars(r)["invitationId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reject(r.Context(), mux.Vars(r)["invitationId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Revoke(r.Context(), mux.Vars(r)["invitationId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func invitationsToDTO(invitations []Invitation) []InvitationDTO {
	dtos := make([]InvitationDTO, 0, len(invitations))
	for _, inv := range invitations {
		dtos = append(dtos, invitationToDTO(inv))
	}
	return dtos
}

func invitationToDTO(inv Invitation) InvitationDTO {
	return InvitationDTO{
		ID:          inv.ID,
		CalendarID:  inv.CalendarID,
		TargetEmail: inv.TargetEmail,
		Role:        string(inv.Role),
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
	case errors.Is(err, calendar.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "insufficient permissions", "")
	case errors.Is(err, calendar.ErrCalendarNotFound):
		rest.WriteError(w, http.StatusNotFound, "calendar not found", "")
	case errors.Is(err, ErrInvitationNotFound):
		rest.WriteError(w, http.StatusNotFound, "invitation not found", "")
	default:
		rest.WriteError(w, http.StatusBadRequest, "invalid invitation", err.Error())
	}
}
