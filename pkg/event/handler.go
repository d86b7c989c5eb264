package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Handler struct {
	service *Service
}

type EventDTO struct {
	ID            string          `json:"id"`
	CalendarID    string          `json:"calendarId"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Day           string          `json:"day"`
	Time          *TimeOfDay      `json:"time,omitempty"`
	Label         string          `json:"label,omitempty"`
	Checked       bool            `json:"checked"`
	Repeat        json.RawMessage `json:"repeat,omitempty"`
	ExcludedDates []string        `json:"excludedDates,omitempty"`
}

type OccurrenceDTO struct {
	EventID    string     `json:"eventId"`
	CalendarID string     `json:"calendarId"`
	Title      string     `json:"title"`
	Day        string     `json:"day"`
	Time       *TimeOfDay `json:"time,omitempty"`
	Label      string     `json:"label,omitempty"`
	Checked    bool       `json:"checked"`
	Recurring  bool       `json:"recurring"`
}

type checkedDTO struct {
	Checked bool `json:"checked"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}
	dto.CalendarID = mux.Vars(r)["calendarId"]

	e, err := dtoToEvent(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEvent(w, http.StatusCreated, created)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEvent(w, http.StatusOK, e)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}
	dto.ID = mux.Vars(r)["eventId"]

	e, err := dtoToEvent(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEvent(w, http.StatusOK, updated)
}

// DeleteEvent handles the three deletion scopes. The default removes the
// whole event; scope=occurrence excludes the day given in the day query
// parameter; scope=future truncates the series before that day.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]
	scope := r.URL.Query().Get("scope")

	var err error
	switch scope {
	case "", "all":
		err = h.service.Delete(r.Context(), eventId)
	case "occurrence", "future":
		var day time.Time
		day, err = time.Parse(dateLayout, r.URL.Query().Get("day"))
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid day parameter", err.Error())
			return
		}
		if scope == "occurrence" {
			err = h.service.DeleteOccurrence(r.Context(), eventId, day)
		} else {
			err = h.service.DeleteFuture(r.Context(), eventId, day)
		}
	default:
		rest.WriteError(w, http.StatusBadRequest, "invalid scope parameter", scope)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetChecked(w http.ResponseWriter, r *http.Request) {
	var dto checkedDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if err := h.service.SetChecked(r.Context(), mux.Vars(r)["eventId"], dto.Checked); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOccurrences expands events over a window. calendarId is a
// comma-separated list; from and to are inclusive dates.
func (h *Handler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := time.Parse(dateLayout, query.Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid from parameter", err.Error())
		return
	}
	to, err := time.Parse(dateLayout, query.Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid to parameter", err.Error())
		return
	}
	var calendarIds []string
	if raw := query.Get("calendarId"); raw != "" {
		calendarIds = strings.Split(raw, ",")
	}

	occurrences, err := h.service.Occurrences(r.Context(), calendarIds, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]OccurrenceDTO, 0, len(occurrences))
	for _, o := range occurrences {
		dtos = append(dtos, occurrenceToDTO(o))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) writeEvent(w http.ResponseWriter, status int, e Event) {
	dto, err := eventToDTO(e)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, status, dto)
}

func eventToDTO(e Event) (EventDTO, error) {
	dto := EventDTO{
		ID:          e.ID,
		CalendarID:  e.CalendarID,
		Title:       e.Title,
		Description: e.Description,
		Day:         e.Day.Format(dateLayout),
		Time:        e.Time,
		Label:       e.Label,
		Checked:     e.Checked,
	}
	if e.Repeat != nil {
		encoded, err := recurrence.EncodeRule(e.Repeat)
		if err != nil {
			return EventDTO{}, err
		}
		dto.Repeat = encoded
	}
	for _, d := range e.Excluded {
		dto.ExcludedDates = append(dto.ExcludedDates, d.Format(dateLayout))
	}
	return dto, nil
}

func dtoToEvent(dto EventDTO) (Event, error) {
	day, err := time.Parse(dateLayout, dto.Day)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		ID:          dto.ID,
		CalendarID:  dto.CalendarID,
		Title:       dto.Title,
		Description: dto.Description,
		Day:         day,
		Time:        dto.Time,
		Label:       dto.Label,
		Checked:     dto.Checked,
	}
	if len(dto.Repeat) > 0 {
		rule, err := recurrence.DecodeRule(dto.Repeat)
		if err != nil {
			return Event{}, err
		}
		e.Repeat = rule
	}
	return e, nil
}

func occurrenceToDTO(o Occurrence) OccurrenceDTO {
	return OccurrenceDTO{
		EventID:    o.EventID,
		CalendarID: o.CalendarID,
		Title:      o.Title,
		Day:        o.Day.Format(dateLayout),
		Time:       o.Time,
		Label:      o.Label,
		Checked:    o.Checked,
		Recurring:  o.Recurring,
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
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "event not found", "")
	default:
		rest.WriteError(w, http.StatusBadRequest, "invalid event", err.Error())
	}
}
