package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	log "github.com/sirupsen/logrus"
)

// ErrForbidden is returned when the current user lacks the role an
// operation requires.
var ErrForbidden = errors.New("insufficient calendar permissions")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, cal Calendar) (Calendar, error) {
	ownerUid, err := user.CurrentUid(ctx)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if cal.Name == "" {
		return Calendar{}, fmt.Errorf("calendar name is required")
	}

	cal.ID = uuid.New().String()
	cal.OwnerUid = ownerUid
	cal.Visible = true
	if err := s.repo.Store(ctx, cal); err != nil {
		return Calendar{}, fmt.Errorf("failed to store calendar: %w", err)
	}
	return cal, nil
}

// List returns the current user's calendars: owned ones first, then
// calendars shared with the user. A share pointing at a calendar the owner
// has since deleted is skipped, not an error.
func (s *Service) List(ctx context.Context) ([]View, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	owned, err := s.repo.ListOwned(ctx, uid)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(owned))
	for _, cal := range owned {
		views = append(views, View{Calendar: cal, Role: RoleOwner, Visible: cal.Visible})
	}

	shares, err := s.repo.ListSharedWith(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, share := range shares {
		cal, err := s.repo.GetByID(ctx, share.CalendarID)
		if errors.Is(err, ErrCalendarNotFound) {
			log.Debugf("share points at missing calendar %s, skipping", share.CalendarID)
			continue
		} else if err != nil {
			return nil, err
		}
		views = append(views, View{Calendar: cal, Role: share.Role, Visible: share.Visible})
	}
	return views, nil
}

// ViewFor resolves the calendar and the current user's role on it.
func (s *Service) ViewFor(ctx context.Context, calendarId string) (View, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to get current user: %w", err)
	}

	cal, err := s.repo.GetByID(ctx, calendarId)
	if err != nil {
		return View{}, err
	}
	if cal.OwnerUid == uid {
		return View{Calendar: cal, Role: RoleOwner, Visible: cal.Visible}, nil
	}

	share, err := s.repo.GetShare(ctx, calendarId, uid)
	if errors.Is(err, ErrCalendarNotFound) {
		return View{}, ErrForbidden
	} else if err != nil {
		return View{}, err
	}
	return View{Calendar: cal, Role: share.Role, Visible: share.Visible}, nil
}

// RequireRole checks that the current user holds at least the given role on
// the calendar. Owners satisfy every requirement, editors satisfy editor and
// viewer, viewers only viewer.
func (s *Service) RequireRole(ctx context.Context, calendarId string, required Role) (View, error) {
	view, err := s.ViewFor(ctx, calendarId)
	if err != nil {
		return View{}, err
	}
	if !view.Role.allows(required) {
		return View{}, ErrForbidden
	}
	return view, nil
}

func (r Role) allows(required Role) bool {
	switch required {
	case RoleViewer:
		return r == RoleViewer || r == RoleEditor || r == RoleOwner
	case RoleEditor:
		return r == RoleEditor || r == RoleOwner
	case RoleOwner:
		return r == RoleOwner
	default:
		return false
	}
}

func (s *Service) Update(ctx context.Context, cal Calendar) (Calendar, error) {
	view, err := s.RequireRole(ctx, cal.ID, RoleOwner)
	if err != nil {
		return Calendar{}, err
	}
	cal.OwnerUid = view.OwnerUid
	if err := s.repo.Update(ctx, cal); err != nil {
		return Calendar{}, fmt.Errorf("failed to update calendar: %w", err)
	}
	return cal, nil
}

func (s *Service) Delete(ctx context.Context, calendarId string) error {
	if _, err := s.RequireRole(ctx, calendarId, RoleOwner); err != nil {
		return err
	}
	return s.repo.Delete(ctx, calendarId)
}

// SetVisibility flips the calendar display toggle for the current user. The
// owner's toggle lives on the calendar, a shared user's on their share row.
func (s *Service) SetVisibility(ctx context.Context, calendarId string, visible bool) error {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	cal, err := s.repo.GetByID(ctx, calendarId)
	if err != nil {
		return err
	}
	if cal.OwnerUid == uid {
		cal.Visible = visible
		return s.repo.Update(ctx, cal)
	}

	share, err := s.repo.GetShare(ctx, calendarId, uid)
	if errors.Is(err, ErrCalendarNotFound) {
		return ErrForbidden
	} else if err != nil {
		return err
	}
	share.Visible = visible
	return s.repo.UpdateShare(ctx, share)
}

// StoreShare grants a user access to a calendar. The sharing service calls
// this when an invitation is accepted; permission checks happened there.
func (s *Service) StoreShare(ctx context.Context, share Share) error {
	if _, err := s.repo.GetByID(ctx, share.CalendarID); err != nil {
		return err
	}
	if existing, err := s.repo.GetShare(ctx, share.CalendarID, share.UserUid); err == nil {
		existing.Role = share.Role
		return s.repo.UpdateShare(ctx, existing)
	}
	return s.repo.StoreShare(ctx, share)
}

// Unshare removes a user's access. Owners can remove anyone; shared users
// can remove themselves (leaving the calendar).
func (s *Service) Unshare(ctx context.Context, calendarId, targetUid string) error {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	cal, err := s.repo.GetByID(ctx, calendarId)
	if err != nil {
		return err
	}
	if cal.OwnerUid != uid && targetUid != uid {
		return ErrForbidden
	}
	return s.repo.DeleteShare(ctx, calendarId, targetUid)
}
