package export

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Service struct {
	calendars *calendar.Service
	events    *event.Service
}

func NewService(calendars *calendar.Service, events *event.Service) *Service {
	return &Service{calendars: calendars, events: events}
}

// ExportICS renders a calendar the current user can view as an iCalendar
// document.
func (s *Service) ExportICS(ctx context.Context, calendarId string) (string, error) {
	view, err := s.calendars.RequireRole(ctx, calendarId, calendar.RoleViewer)
	if err != nil {
		return "", err
	}
	events, err := s.events.ListByCalendar(ctx, calendarId)
	if err != nil {
		return "", err
	}
	return BuildICS(view.Calendar, events)
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	document, err := h.service.ExportICS(r.Context(), mux.Vars(r)["calendarId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	_, _ = w.Write([]byte(document))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
	case errors.Is(err, calendar.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "insufficient permissions", "")
	case errors.Is(err, calendar.ErrCalendarNotFound):
		rest.WriteError(w, http.StatusNotFound, "calendar not found", "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
