package calendar

// Role is the permission level a user holds on a calendar.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Calendar is a container for events and labels. Visible is the owner's
// display toggle; shared users carry their own toggle on the share.
type Calendar struct {
	ID          string
	OwnerUid    string
	Name        string
	Prioritized bool
	Visible     bool
}

// Share grants a user access to someone else's calendar, created when an
// invitation is accepted.
type Share struct {
	CalendarID string
	UserUid    string
	Role       Role
	Visible    bool
}

// View is a calendar as seen by one user: the calendar plus the role and
// visibility that apply to that user.
type View struct {
	Calendar
	Role    Role
	Visible bool
}
