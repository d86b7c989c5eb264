package app

import (
	"github.com/gorilla/mux"
	"github.com/nothowstorygoes/carlocalendar/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendars
	r.HandleFunc("/api/calendar", deps.CalendarHandler.ListCalendars).Methods("GET")
	r.HandleFunc("/api/calendar", deps.CalendarHandler.CreateCalendar).Methods("POST")
	r.HandleFunc("/api/calendar/{calendarId}", deps.CalendarHandler.UpdateCalendar).Methods("PUT")
	r.HandleFunc("/api/calendar/{calendarId}", deps.CalendarHandler.DeleteCalendar).Methods("DELETE")
	r.HandleFunc("/api/calendar/{calendarId}/visibility", deps.CalendarHandler.SetVisibility).Methods("PUT")
	r.HandleFunc("/api/calendar/{calendarId}/share/{userUid}", deps.CalendarHandler.Unshare).Methods("DELETE")

	// Labels
	r.HandleFunc("/api/calendar/{calendarId}/label", deps.LabelHandler.ListLabels).Methods("GET")
	r.HandleFunc("/api/calendar/{calendarId}/label", deps.LabelHandler.CreateLabel).Methods("POST")
	r.HandleFunc("/api/label/{labelId}", deps.LabelHandler.UpdateLabel).Methods("PUT")
	r.HandleFunc("/api/label/{labelId}", deps.LabelHandler.DeleteLabel).Methods("DELETE")

	// Events
	r.HandleFunc("/api/calendar/{calendarId}/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event", deps.EventHandler.GetOccurrences).
		Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/event/{eventId}/checked", deps.EventHandler.SetChecked).Methods("PUT")

	// Views
	r.HandleFunc("/api/view/month", deps.ViewHandler.GetMonth).
		Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/view/week", deps.ViewHandler.GetWeek).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/view/workweek", deps.ViewHandler.GetWorkWeek).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/view/day", deps.ViewHandler.GetDay).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/view/year", deps.ViewHandler.GetYear).Queries("year", "{year}").Methods("GET")

	// Sharing
	r.HandleFunc("/api/calendar/{calendarId}/invitation", deps.SharingHandler.Invite).Methods("POST")
	r.HandleFunc("/api/calendar/{calendarId}/invitation", deps.SharingHandler.ListCalendarInvitations).Methods("GET")
	r.HandleFunc("/api/invitation", deps.SharingHandler.ListMyInvitations).Methods("GET")
	r.HandleFunc("/api/invitation/{invitationId}/accept", deps.SharingHandler.Accept).Methods("POST")
	r.HandleFunc("/api/invitation/{invitationId}/reject", deps.SharingHandler.Reject).Methods("POST")
	r.HandleFunc("/api/invitation/{invitationId}", deps.SharingHandler.Revoke).Methods("DELETE")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")

	// Google sign-in
	r.HandleFunc("/api/auth/google/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/auth/google/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")

	// Backup
	r.HandleFunc("/api/backup", deps.BackupHandler.ExportBackup).Methods("GET")
	r.HandleFunc("/api/backup", deps.BackupHandler.ImportBackup).Methods("POST")

	// ICS export
	r.HandleFunc("/api/calendar/{calendarId}/ics", deps.ExportHandler.ExportCalendar).Methods("GET")

	// Metrics
	r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
}
