package sharing

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/nothowstorygoes/carlocalendar/internal/config"
	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Mailer delivers invitation notifications.
type Mailer interface {
	SendInvitation(inv event_bus.InvitationCreated) error
}

// RegisterMailer subscribes the mailer to invitation events.
func RegisterMailer(bus *event_bus.EventBus, mailer Mailer) {
	bus.Subscribe(event_bus.InvitationCreatedEvent, func(e event_bus.Event) error {
		data, ok := e.Data.(event_bus.InvitationCreated)
		if !ok {
			return fmt.Errorf("unexpected payload for %s event", e.Type)
		}
		return mailer.SendInvitation(data)
	})
}

// SMTPMailer sends plain-text invitation mails over SMTP.
type SMTPMailer struct {
	cfg config.Mail
}

func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendInvitation(inv event_bus.InvitationCreated) error {
	body := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + inv.TargetEmail,
		"Subject: Calendar invitation: " + inv.CalendarName,
		"",
		fmt.Sprintf("You have been invited to the calendar %q as %s.", inv.CalendarName, inv.Role),
		"Sign in to accept or decline the invitation.",
		"",
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{inv.TargetEmail}, []byte(body)); err != nil {
		return fmt.Errorf("could not send invitation mail to %s: %w", inv.TargetEmail, err)
	}
	log.Debugf("invitation mail sent to %s for calendar %s", inv.TargetEmail, inv.CalendarID)
	return nil
}

// NoopMailer is used when mail delivery is disabled in the configuration.
type NoopMailer struct{}

func (NoopMailer) SendInvitation(inv event_bus.InvitationCreated) error {
	log.Infof("mail disabled, skipping invitation notification for %s", inv.TargetEmail)
	return nil
}
