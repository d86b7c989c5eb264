package sharing

import (
	"context"
	"testing"
	"time"

	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service   *Service
	calendars *calendar.Service
	bus       *event_bus.EventBus
	clock     *utils.FixedClock
	calID     string
}

func aliceCtx() context.Context {
	return user.WithUser(context.Background(), user.User{Uid: "alice", Email: "alice@example.com"})
}

func bobCtx() context.Context {
	return user.WithUser(context.Background(), user.User{Uid: "bob", Email: "bob@example.com"})
}

func setup(t *testing.T) fixture {
	bus := event_bus.NewEventBus()
	calendars := calendar.NewService(calendar.NewRepositoryStub())
	clock := &utils.FixedClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewService(NewRepositoryStub(), calendars, bus, clock, 30)

	cal, err := calendars.Create(aliceCtx(), calendar.Calendar{Name: "Team"})
	require.NoError(t, err)
	return fixture{service: service, calendars: calendars, bus: bus, clock: clock, calID: cal.ID}
}

func TestService_InvitePublishesEvent(t *testing.T) {
	f := setup(t)

	var received []event_bus.InvitationCreated
	f.bus.Subscribe(event_bus.InvitationCreatedEvent, func(e event_bus.Event) error {
		received = append(received, e.Data.(event_bus.InvitationCreated))
		return nil
	})

	inv, err := f.service.Invite(aliceCtx(), f.calID, "Bob@Example.com", calendar.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, inv.Status)
	assert.Equal(t, "bob@example.com", inv.TargetEmail)

	require.Len(t, received, 1)
	assert.Equal(t, inv.ID, received[0].InvitationID)
	assert.Equal(t, "Team", received[0].CalendarName)
	assert.Equal(t, "editor", received[0].Role)
}

func TestService_InviteValidation(t *testing.T) {
	f := setup(t)

	_, err := f.service.Invite(aliceCtx(), f.calID, "not-an-email", calendar.RoleEditor)
	assert.Error(t, err)

	_, err = f.service.Invite(aliceCtx(), f.calID, "bob@example.com", calendar.RoleOwner)
	assert.Error(t, err, "ownership is not grantable")

	_, err = f.service.Invite(bobCtx(), f.calID, "carol@example.com", calendar.RoleViewer)
	assert.ErrorIs(t, err, calendar.ErrForbidden)
}

func TestService_AcceptCreatesShare(t *testing.T) {
	f := setup(t)

	inv, err := f.service.Invite(aliceCtx(), f.calID, "bob@example.com", calendar.RoleViewer)
	require.NoError(t, err)

	require.NoError(t, f.service.Accept(bobCtx(), inv.ID))

	views, err := f.calendars.List(bobCtx())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, calendar.RoleViewer, views[0].Role)

	// Accepting twice fails, the invitation is no longer pending.
	assert.Error(t, f.service.Accept(bobCtx(), inv.ID))
}

func TestService_AcceptRequiresMatchingEmail(t *testing.T) {
	f := setup(t)

	inv, err := f.service.Invite(aliceCtx(), f.calID, "bob@example.com", calendar.RoleViewer)
	require.NoError(t, err)

	carolCtx := user.WithUser(context.Background(), user.User{Uid: "carol", Email: "carol@example.com"})
	assert.ErrorIs(t, f.service.Accept(carolCtx, inv.ID), calendar.ErrForbidden)
}

func TestService_RejectLeavesNoShare(t *testing.T) {
	f := setup(t)

	inv, err := f.service.Invite(aliceCtx(), f.calID, "bob@example.com", calendar.RoleViewer)
	require.NoError(t, err)
	require.NoError(t, f.service.Reject(bobCtx(), inv.ID))

	views, err := f.calendars.List(bobCtx())
	require.NoError(t, err)
	assert.Empty(t, views)

	pending, err := f.service.ListForCurrentUser(bobCtx())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestService_RevokeOwnerOnly(t *testing.T) {
	f := setup(t)

	inv, err := f.service.Invite(aliceCtx(), f.calID, "bob@example.com", calendar.RoleViewer)
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.Revoke(bobCtx(), inv.ID), calendar.ErrForbidden)
	require.NoError(t, f.service.Revoke(aliceCtx(), inv.ID))
	assert.ErrorIs(t, f.service.Accept(bobCtx(), inv.ID), ErrInvitationNotFound)
}

func TestService_PurgeExpired(t *testing.T) {
	f := setup(t)

	old, err := f.service.Invite(aliceCtx(), f.calID, "bob@example.com", calendar.RoleViewer)
	require.NoError(t, err)

	// 31 days pass; a fresh invitation arrives on the new day.
	f.clock.SetNow(f.clock.FixedNow.AddDate(0, 0, 31))
	fresh, err := f.service.Invite(aliceCtx(), f.calID, "carol@example.com", calendar.RoleViewer)
	require.NoError(t, err)

	require.NoError(t, f.service.PurgeExpired(context.Background()))

	pending, err := f.service.ListForCurrentUser(bobCtx())
	require.NoError(t, err)
	assert.Empty(t, pending, "old invitation purged")
	_, err = f.service.repo.GetByID(context.Background(), old.ID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
	_, err = f.service.repo.GetByID(context.Background(), fresh.ID)
	assert.NoError(t, err)
}
