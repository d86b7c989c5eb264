package event_bus

const (
	// LabelDeletedEvent fires after a label row is removed; the event
	// service reacts by cascading deletion of events carrying the label.
	LabelDeletedEvent EventType = "label.deleted"

	// InvitationCreatedEvent fires after a calendar share invitation is
	// stored; the mailer reacts by sending the invitation email.
	InvitationCreatedEvent EventType = "invitation.created"
)

type LabelDeleted struct {
	CalendarID string
	LabelName  string
}

type InvitationCreated struct {
	InvitationID string
	CalendarID   string
	CalendarName string
	OwnerUid     string
	TargetEmail  string
	Role         string
}
