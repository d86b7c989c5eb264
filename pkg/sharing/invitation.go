package sharing

import (
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Invitation asks the owner of TargetEmail to join a calendar with the given
// role. The share row is only created when the invitee accepts.
type Invitation struct {
	ID          string
	CalendarID  string
	OwnerUid    string
	TargetEmail string
	Role        calendar.Role
	Status      Status
	CreatedAt   time.Time
}
