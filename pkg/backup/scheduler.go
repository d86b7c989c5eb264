package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nothowstorygoes/carlocalendar/internal/config"
	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/sharing"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler runs the periodic maintenance jobs: snapshot backups to the
// configured directory on the configured cron schedule, and a daily purge of
// expired invitations.
type Scheduler struct {
	cron    *cron.Cron
	backups *Service
	users   user.Service
	sharing *sharing.Service
	clock   utils.Clock
	cfg     config.Backup
}

func NewScheduler(backups *Service, users user.Service, sharingService *sharing.Service, clock utils.Clock, cfg config.Backup) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		backups: backups,
		users:   users,
		sharing: sharingService,
		clock:   clock,
		cfg:     cfg,
	}
}

func (s *Scheduler) Start() error {
	if s.cfg.Schedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.Schedule, s.runBackups); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", s.cfg.Schedule, err)
		}
		log.Infof("scheduled backups enabled: %s -> %s", s.cfg.Schedule, s.cfg.Dir)
	}
	if _, err := s.cron.AddFunc("@daily", s.purgeInvitations); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// runBackups writes one snapshot file per user. Failures for one user do not
// stop the rest.
func (s *Scheduler) runBackups() {
	ctx := context.Background()
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		log.Errorf("scheduled backup: could not list users: %v", err)
		return
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		log.Errorf("scheduled backup: could not create %s: %v", s.cfg.Dir, err)
		return
	}

	stamp := s.clock.Now().UTC().Format("20060102-150405")
	for _, u := range users {
		if err := s.backupUser(ctx, u, stamp); err != nil {
			log.Errorf("scheduled backup for user %s failed: %v", u.Uid, err)
		}
	}
}

func (s *Scheduler) backupUser(ctx context.Context, u user.User, stamp string) error {
	snapshot, err := s.backups.Export(user.WithUser(ctx, u))
	if err != nil {
		return err
	}
	if len(snapshot.Calendars) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.cfg.Dir, fmt.Sprintf("backup-%s-%s.json", u.Uid, stamp))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	log.Infof("wrote backup %s", path)
	return nil
}

func (s *Scheduler) purgeInvitations() {
	if err := s.sharing.PurgeExpired(context.Background()); err != nil {
		log.Errorf("invitation purge failed: %v", err)
	}
}
