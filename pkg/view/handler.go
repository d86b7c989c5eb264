package view

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

const dateLayout = "2006-01-02"

type OccurrenceDTO struct {
	EventID    string `json:"eventId"`
	CalendarID string `json:"calendarId"`
	Title      string `json:"title"`
	Day        string `json:"day"`
	Time       string `json:"time,omitempty"`
	Label      string `json:"label,omitempty"`
	LabelColor string `json:"labelColor,omitempty"`
	Checked    bool   `json:"checked"`
	Recurring  bool   `json:"recurring"`
}

type DayDTO struct {
	Date        string          `json:"date"`
	InMonth     bool            `json:"inMonth"`
	Today       bool            `json:"today"`
	Occurrences []OccurrenceDTO `json:"occurrences"`
}

type MonthDTO struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Grid  [][]DayDTO `json:"grid"`
}

type YearDTO struct {
	Year   int        `json:"year"`
	Months []MonthDTO `json:"months"`
}

// GetMonth serves the month grid. Query parameters: year, month (1-12).
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	mv, err := h.service.Month(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, monthToDTO(mv))
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	week, err := h.service.Week(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, daysToDTO(week[:]))
}

func (h *Handler) GetWorkWeek(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	week, err := h.service.WorkWeek(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, daysToDTO(week[:]))
}

func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	dv, err := h.service.Day(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, dayToDTO(dv))
}

func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid year parameter", err.Error())
		return
	}

	yv, err := h.service.Year(r.Context(), year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dto := YearDTO{Year: yv.Year, Months: make([]MonthDTO, 0, 12)}
	for _, mv := range yv.Months {
		dto.Months = append(dto.Months, monthToDTO(mv))
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

func yearMonthParams(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	query := r.URL.Query()
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid year parameter", err.Error())
		return 0, 0, false
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		rest.WriteError(w, http.StatusBadRequest, "invalid month parameter", query.Get("month"))
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date parameter", err.Error())
		return time.Time{}, false
	}
	return date, true
}

func monthToDTO(mv MonthView) MonthDTO {
	dto := MonthDTO{Year: mv.Year, Month: int(mv.Month), Grid: make([][]DayDTO, 0, len(mv.Grid))}
	for _, row := range mv.Grid {
		dto.Grid = append(dto.Grid, daysToDTO(row[:]))
	}
	return dto
}

func daysToDTO(days []DayView) []DayDTO {
	out := make([]DayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, dayToDTO(d))
	}
	return out
}

func dayToDTO(d DayView) DayDTO {
	dto := DayDTO{
		Date:        d.Date.Format(dateLayout),
		InMonth:     d.InMonth,
		Today:       d.Today,
		Occurrences: make([]OccurrenceDTO, 0, len(d.Occurrences)),
	}
	for _, occ := range d.Occurrences {
		o := OccurrenceDTO{
			EventID:    occ.EventID,
			CalendarID: occ.CalendarID,
			Title:      occ.Title,
			Day:        occ.Day.Format(dateLayout),
			Label:      occ.Label,
			LabelColor: occ.LabelColor,
			Checked:    occ.Checked,
			Recurring:  occ.Recurring,
		}
		if occ.Time != nil {
			o.Time = time.Date(0, 1, 1, occ.Time.Hours, occ.Time.Minutes, 0, 0, time.UTC).Format("15:04")
		}
		dto.Occurrences = append(dto.Occurrences, o)
	}
	return dto
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
	case errors.Is(err, calendar.ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "insufficient permissions", "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
