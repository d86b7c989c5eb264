package app

import (
	"database/sql"

	"github.com/nothowstorygoes/carlocalendar/internal/auth"
	"github.com/nothowstorygoes/carlocalendar/internal/config"
	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	"github.com/nothowstorygoes/carlocalendar/internal/metrics"
	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/backup"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/export"
	"github.com/nothowstorygoes/carlocalendar/pkg/label"
	"github.com/nothowstorygoes/carlocalendar/pkg/sharing"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	"github.com/nothowstorygoes/carlocalendar/pkg/view"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Metrics  *metrics.Metrics

	UserService user.Service
	UserHandler *user.Handler
	GoogleAuth  *auth.GoogleAuth

	CalendarRepository *calendar.RepositoryImpl
	CalendarService    *calendar.Service
	CalendarHandler    *calendar.Handler

	LabelRepository *label.RepositoryImpl
	LabelService    *label.Service
	LabelHandler    *label.Handler

	EventRepository *event.RepositoryImpl
	EventService    *event.Service
	EventHandler    *event.Handler

	ViewService *view.Service
	ViewHandler *view.Handler

	SharingRepository *sharing.RepositoryImpl
	SharingService    *sharing.Service
	SharingHandler    *sharing.Handler
	Mailer            sharing.Mailer

	BackupService   *backup.Service
	BackupHandler   *backup.Handler
	BackupScheduler *backup.Scheduler

	ExportService *export.Service
	ExportHandler *export.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Metrics = metrics.New()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)
	deps.GoogleAuth = auth.NewGoogleAuth(deps.UserService, cfg)

	deps.CalendarRepository = calendar.NewRepository(db)
	deps.CalendarService = calendar.NewService(deps.CalendarRepository)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.LabelRepository = label.NewRepository(db)
	deps.LabelService = label.NewService(deps.LabelRepository, deps.CalendarService, deps.EventBus)
	deps.LabelHandler = label.NewHandler(deps.LabelService)

	deps.EventRepository = event.NewRepository(db)
	deps.EventService = event.NewService(deps.EventRepository, deps.CalendarService, deps.EventBus)
	deps.EventHandler = event.NewHandler(deps.EventService)

	deps.ViewService = view.NewService(deps.EventService, deps.LabelService, deps.CalendarService, deps.Clock)
	deps.ViewHandler = view.NewHandler(deps.ViewService)

	deps.SharingRepository = sharing.NewRepository(db)
	deps.SharingService = sharing.NewService(deps.SharingRepository, deps.CalendarService, deps.EventBus,
		deps.Clock, cfg.Sharing.InvitationTTLDays)
	deps.SharingHandler = sharing.NewHandler(deps.SharingService)
	if cfg.Mail.Enabled {
		deps.Mailer = sharing.NewSMTPMailer(cfg.Mail)
	} else {
		deps.Mailer = sharing.NoopMailer{}
	}
	sharing.RegisterMailer(deps.EventBus, deps.Mailer)

	deps.BackupService = backup.NewService(deps.CalendarService, deps.LabelService, deps.EventService, deps.Clock)
	deps.BackupHandler = backup.NewHandler(deps.BackupService)
	deps.BackupScheduler = backup.NewScheduler(deps.BackupService, deps.UserService, deps.SharingService, deps.Clock, cfg.Backup)

	deps.ExportService = export.NewService(deps.CalendarService, deps.EventService)
	deps.ExportHandler = export.NewHandler(deps.ExportService)

	return deps
}
