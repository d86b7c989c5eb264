package sharing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo      Repository
	calendars *calendar.Service
	eventBus  *event_bus.EventBus
	clock     utils.Clock
	ttlDays   int
}

func NewService(repo Repository, calendars *calendar.Service, eventBus *event_bus.EventBus, clock utils.Clock, ttlDays int) *Service {
	return &Service{
		repo:      repo,
		calendars: calendars,
		eventBus:  eventBus,
		clock:     clock,
		ttlDays:   ttlDays,
	}
}

// Invite stores a pending invitation and publishes it on the bus so the
// mailer can notify the invitee. Only the calendar owner can invite, with
// viewer or editor as grantable roles.
func (s *Service) Invite(ctx context.Context, calendarId, targetEmail string, role calendar.Role) (Invitation, error) {
	view, err := s.calendars.RequireRole(ctx, calendarId, calendar.RoleOwner)
	if err != nil {
		return Invitation{}, err
	}
	targetEmail = strings.ToLower(strings.TrimSpace(targetEmail))
	if targetEmail == "" || !strings.Contains(targetEmail, "@") {
		return Invitation{}, fmt.Errorf("invalid invitation email %q", targetEmail)
	}
	if role != calendar.RoleViewer && role != calendar.RoleEditor {
		return Invitation{}, fmt.Errorf("invalid invitation role %q", role)
	}

	inv := Invitation{
		ID:          uuid.New().String(),
		CalendarID:  calendarId,
		OwnerUid:    view.OwnerUid,
		TargetEmail: targetEmail,
		Role:        role,
		Status:      StatusPending,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.Store(ctx, inv); err != nil {
		return Invitation{}, fmt.Errorf("failed to store invitation: %w", err)
	}

	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.InvitationCreatedEvent, event_bus.InvitationCreated{
		InvitationID: inv.ID,
		CalendarID:   inv.CalendarID,
		CalendarName: view.Name,
		OwnerUid:     inv.OwnerUid,
		TargetEmail:  inv.TargetEmail,
		Role:         string(inv.Role),
	})); err != nil {
		// The invitation stands even when the notification fails.
		log.Warnf("invitation %s stored but notification failed: %v", inv.ID, err)
	}
	return inv, nil
}

// ListForCalendar returns a calendar's invitations, for the owner.
func (s *Service) ListForCalendar(ctx context.Context, calendarId string) ([]Invitation, error) {
	if _, err := s.calendars.RequireRole(ctx, calendarId, calendar.RoleOwner); err != nil {
		return nil, err
	}
	return s.repo.ListByCalendar(ctx, calendarId)
}

// ListForCurrentUser returns the pending invitations addressed to the
// current user's email.
func (s *Service) ListForCurrentUser(ctx context.Context) ([]Invitation, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListPendingByEmail(ctx, strings.ToLower(u.Email))
}

// Accept turns a pending invitation into a share row for the current user.
func (s *Service) Accept(ctx context.Context, invitationId string) error {
	inv, u, err := s.pendingForCurrentUser(ctx, invitationId)
	if err != nil {
		return err
	}

	if err := s.calendars.StoreShare(ctx, calendar.Share{
		CalendarID: inv.CalendarID,
		UserUid:    u.Uid,
		Role:       inv.Role,
		Visible:    true,
	}); err != nil {
		return fmt.Errorf("failed to create share: %w", err)
	}
	inv.Status = StatusAccepted
	return s.repo.Update(ctx, inv)
}

// Reject declines a pending invitation.
func (s *Service) Reject(ctx context.Context, invitationId string) error {
	inv, _, err := s.pendingForCurrentUser(ctx, invitationId)
	if err != nil {
		return err
	}
	inv.Status = StatusRejected
	return s.repo.Update(ctx, inv)
}

// Revoke lets the calendar owner withdraw an invitation.
func (s *Service) Revoke(ctx context.Context, invitationId string) error {
	inv, err := s.repo.GetByID(ctx, invitationId)
	if err != nil {
		return err
	}
	if _, err := s.calendars.RequireRole(ctx, inv.CalendarID, calendar.RoleOwner); err != nil {
		return err
	}
	return s.repo.Delete(ctx, invitationId)
}

// PurgeExpired removes pending invitations older than the configured TTL.
// The backup scheduler runs it periodically.
func (s *Service) PurgeExpired(ctx context.Context) error {
	if s.ttlDays <= 0 {
		return nil
	}
	cutoff := s.clock.Now().UTC().AddDate(0, 0, -s.ttlDays)
	purged, err := s.repo.DeletePendingBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Infof("purged %d expired invitation(s)", purged)
	}
	return nil
}

func (s *Service) pendingForCurrentUser(ctx context.Context, invitationId string) (Invitation, user.User, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Invitation{}, user.User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	inv, err := s.repo.GetByID(ctx, invitationId)
	if err != nil {
		return Invitation{}, user.User{}, err
	}
	if !strings.EqualFold(inv.TargetEmail, u.Email) {
		return Invitation{}, user.User{}, calendar.ErrForbidden
	}
	if inv.Status != StatusPending {
		return Invitation{}, user.User{}, fmt.Errorf("invitation is %s, not pending", inv.Status)
	}
	return inv, u, nil
}
