package backup

import "encoding/json"

// SnapshotVersion is bumped when the snapshot layout changes incompatibly.
const SnapshotVersion = 1

// Snapshot is a self-contained JSON dump of a user's owned calendars with
// their labels and events. Recurrence rules are stored in their wire
// encoding, so a snapshot restores on any version that reads the same rule
// format.
type Snapshot struct {
	Version   int              `json:"version"`
	CreatedAt string           `json:"createdAt"`
	OwnerUid  string           `json:"ownerUid"`
	Calendars []CalendarBackup `json:"calendars"`
}

type CalendarBackup struct {
	Name        string        `json:"name"`
	Prioritized bool          `json:"prioritized"`
	Labels      []LabelBackup `json:"labels"`
	Events      []EventBackup `json:"events"`
}

type LabelBackup struct {
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
}

type EventBackup struct {
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Day           string          `json:"day"`
	TimeMinutes   *int            `json:"timeMinutes,omitempty"`
	Label         string          `json:"label,omitempty"`
	Checked       bool            `json:"checked"`
	Repeat        json.RawMessage `json:"repeat,omitempty"`
	ExcludedDates []string        `json:"excludedDates,omitempty"`
}
